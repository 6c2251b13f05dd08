package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/infrastructure/gin_interface/dto"
	"github.com/Cyr-Ch/filmmaker/middleware"
	"github.com/gin-gonic/gin"
)

const jobEventsPollInterval = 500 * time.Millisecond

type JobsController interface {
	SubmitJob(c *gin.Context)
	JobStatus(c *gin.Context)
	JobEvents(c *gin.Context)
	RegisterRoutes(g *gin.RouterGroup)
}

type jobsController struct {
	logger         outbound.LoggerPort
	jobs           inbound.RenderJobsPort
	pipelineConfig *config.PipelineConfig
	pollInterval   time.Duration
}

// NewJobsController accepts a nil jobs port when no queue is configured; every
// route then answers 503.
func NewJobsController(logger outbound.LoggerPort, jobs inbound.RenderJobsPort, pipelineConfig *config.PipelineConfig) JobsController {
	return &jobsController{
		logger:         logger,
		jobs:           jobs,
		pipelineConfig: pipelineConfig,
		pollInterval:   jobEventsPollInterval,
	}
}

func (j *jobsController) SubmitJob(c *gin.Context) {
	var req dto.GenerateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, j.logger, http.StatusBadRequest, err, err.Error())
		return
	}

	script, err := resolveScript(req, j.pipelineConfig.FilesDir)
	if err != nil {
		abortWithError(c, j.logger, scriptErrorStatus(err), err, scriptErrorMessage(err))
		return
	}

	jobID, err := j.jobs.Submit(c.Request.Context(), inbound.SubmitJobParams{
		ScriptText: script,
		Style:      req.VideoStyle,
	})
	if errors.Is(err, domain.ErrEmptyInput) {
		abortWithError(c, j.logger, http.StatusBadRequest, err, "Either script_text or script_path is required")
		return
	}
	if err != nil {
		abortWithError(c, j.logger, http.StatusInternalServerError, err, "failed to queue the render job")
		return
	}

	c.JSON(http.StatusAccepted, dto.SubmitJobResponse{
		Success: true,
		JobID:   jobID,
	})
}

func (j *jobsController) JobStatus(c *gin.Context) {
	status, ok := j.status(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, status)
}

// JobEvents streams a "stage" event every time the job status changes and
// closes the stream once the job is done or failed.
func (j *jobsController) JobEvents(c *gin.Context) {
	status, ok := j.status(c)
	if !ok {
		return
	}

	middleware.SetSSEHeaders(c)
	ctx := c.Request.Context()
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	var last domain.JobStatus
	for {
		if *status != last {
			c.SSEvent("stage", status)
			c.Writer.Flush()
			last = *status
		}
		if status.Terminal() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		next, err := j.jobs.Status(ctx, status.JobID)
		if err != nil {
			j.logger.ErrorWithFields(err, "Failed to read job status", map[string]interface{}{
				"jobID": status.JobID,
			})
			c.SSEvent("error", "internal server error")
			return
		}
		status = next
	}
}

func (j *jobsController) status(c *gin.Context) (*domain.JobStatus, bool) {
	status, err := j.jobs.Status(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrJobNotFound) {
		abortWithError(c, j.logger, http.StatusNotFound, err, "job not found")
		return nil, false
	}
	if err != nil {
		abortWithError(c, j.logger, http.StatusInternalServerError, err, "failed to read the job status")
		return nil, false
	}
	return status, true
}

func (j *jobsController) requireQueue(c *gin.Context) {
	if j.jobs == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse("render jobs are not configured"))
		return
	}
	c.Next()
}

func (j *jobsController) RegisterRoutes(g *gin.RouterGroup) {
	jobs := g.Group("/jobs", j.requireQueue)
	jobs.POST("", j.SubmitJob)
	jobs.GET("/:id", j.JobStatus)
	jobs.GET("/:id/events", j.JobEvents)
}

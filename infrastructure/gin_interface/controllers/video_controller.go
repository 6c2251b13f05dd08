package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const renderedVideoDir = "videos"

type VideoController interface {
	GenerateVideo(c *gin.Context)
	RegisterRoutes(g *gin.RouterGroup)
}

type videoController struct {
	logger         outbound.LoggerPort
	pipeline       inbound.VideoPipelinePort
	publisher      inbound.RenderPublisherPort
	pipelineConfig *config.PipelineConfig
	newVideoID     func() string
}

func NewVideoController(logger outbound.LoggerPort, pipeline inbound.VideoPipelinePort, publisher inbound.RenderPublisherPort,
	pipelineConfig *config.PipelineConfig) VideoController {
	return &videoController{
		logger:         logger,
		pipeline:       pipeline,
		publisher:      publisher,
		pipelineConfig: pipelineConfig,
		newVideoID:     uuid.NewString,
	}
}

func (v *videoController) GenerateVideo(c *gin.Context) {
	var req dto.GenerateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, v.logger, http.StatusBadRequest, err, err.Error())
		return
	}

	script, err := resolveScript(req, v.pipelineConfig.FilesDir)
	if err != nil {
		abortWithError(c, v.logger, scriptErrorStatus(err), err, scriptErrorMessage(err))
		return
	}

	outputPath := filepath.Join(v.pipelineConfig.FilesDir, renderedVideoDir, v.newVideoID()+".mp4")
	result, err := v.pipeline.Run(c.Request.Context(), inbound.PipelineRequest{
		Script:     script,
		OutputPath: outputPath,
		Style:      req.VideoStyle,
	})
	if err != nil {
		abortWithError(c, v.logger, http.StatusInternalServerError, err, err.Error())
		return
	}

	videoURL := ""
	if v.publisher != nil {
		videoURL = v.publisher.Publish(c.Request.Context(), *result)
	}

	c.JSON(http.StatusOK, dto.GenerateVideoResponse{
		Success:   true,
		VideoPath: result.OutputPath,
		Kind:      string(result.Kind),
		Degraded:  result.Degraded(),
		VideoURL:  videoURL,
	})
}

func (v *videoController) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/generate-video", v.GenerateVideo)
}

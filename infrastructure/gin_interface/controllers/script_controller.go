package controllers

import (
	"errors"
	"net/http"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
)

type ScriptController interface {
	GenerateScript(c *gin.Context)
	RegisterRoutes(g *gin.RouterGroup)
}

type scriptController struct {
	logger outbound.LoggerPort
	writer inbound.ScriptWriterPort
}

func NewScriptController(logger outbound.LoggerPort, writer inbound.ScriptWriterPort) ScriptController {
	return &scriptController{
		logger: logger,
		writer: writer,
	}
}

func (s *scriptController) GenerateScript(c *gin.Context) {
	var req dto.GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, s.logger, http.StatusBadRequest, err, err.Error())
		return
	}

	written, err := s.writer.Write(c.Request.Context(), req.InputText)
	if errors.Is(err, domain.ErrEmptyInput) {
		abortWithError(c, s.logger, http.StatusBadRequest, err, "input_text must not be empty")
		return
	}
	if err != nil {
		abortWithError(c, s.logger, http.StatusInternalServerError, err, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.GenerateScriptResponse{
		Success:    true,
		ScriptPath: written.ScriptPath,
		MovieDir:   written.MovieDir,
		Title:      written.Title,
	})
}

func (s *scriptController) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/generate-script", s.GenerateScript)
}

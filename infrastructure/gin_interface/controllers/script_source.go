package controllers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
)

// resolveScript returns the script text of a video request. Exactly one of
// script_text and script_path must be set, and script_path must lie under
// filesDir, where generate-script writes.
func resolveScript(req dto.GenerateVideoRequest, filesDir string) (string, error) {
	hasText := strings.TrimSpace(req.ScriptText) != ""
	hasPath := strings.TrimSpace(req.ScriptPath) != ""
	if hasText == hasPath {
		return "", domain.ErrInvalidScriptRequest
	}
	if hasText {
		return req.ScriptText, nil
	}

	if !insideDir(filesDir, req.ScriptPath) {
		return "", domain.ErrScriptOutsideFiles
	}

	data, err := os.ReadFile(req.ScriptPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w at: %s", domain.ErrScriptNotFound, req.ScriptPath)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func insideDir(dir string, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func scriptErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidScriptRequest), errors.Is(err, domain.ErrScriptOutsideFiles):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrScriptNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func scriptErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidScriptRequest):
		return "Either script_text or script_path is required"
	case errors.Is(err, domain.ErrScriptOutsideFiles):
		return "script_path must point inside the files directory"
	case errors.Is(err, domain.ErrScriptNotFound):
		return "Script file not found" + strings.TrimPrefix(err.Error(), domain.ErrScriptNotFound.Error())
	default:
		return err.Error()
	}
}

func abortWithError(c *gin.Context, logger outbound.LoggerPort, status int, err error, message string) {
	if status >= http.StatusInternalServerError {
		logger.ErrorWithFields(err, "Request failed", map[string]interface{}{
			"path":   c.FullPath(),
			"status": status,
		})
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message))
}

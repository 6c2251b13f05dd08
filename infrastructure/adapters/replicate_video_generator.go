package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
)

type replicatePredictionRequest struct {
	Input replicatePredictionInput `json:"input"`
}

type replicatePredictionInput struct {
	Prompt string `json:"prompt"`
}

type replicatePrediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  interface{}     `json:"error"`
}

type replicateVideoGenerator struct {
	ContentFetcher
	logger          outbound.LoggerPort
	replicateConfig *config.ReplicateConfig
}

func NewReplicateVideoGenerator(contentFetcher ContentFetcher, replicateConfig *config.ReplicateConfig, logger outbound.LoggerPort) outbound.VideoGeneratorPort {
	return &replicateVideoGenerator{
		ContentFetcher:  contentFetcher,
		logger:          logger,
		replicateConfig: replicateConfig,
	}
}

func (r *replicateVideoGenerator) CreateTask(ctx context.Context, model string, prompt string) (*outbound.VideoTask, error) {
	if !r.replicateConfig.Enabled() {
		return nil, fmt.Errorf("replicate: %w", domain.ErrServiceNotConfigured)
	}

	body, err := json.Marshal(replicatePredictionRequest{Input: replicatePredictionInput{Prompt: prompt}})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/models/%s/predictions", strings.TrimRight(r.replicateConfig.ApiUrl, "/"), model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to create the prediction request", map[string]interface{}{
			"model": model,
		})
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return r.send(req)
}

func (r *replicateVideoGenerator) GetTask(ctx context.Context, taskID string) (*outbound.VideoTask, error) {
	if !r.replicateConfig.Enabled() {
		return nil, fmt.Errorf("replicate: %w", domain.ErrServiceNotConfigured)
	}

	url := fmt.Sprintf("%s/v1/predictions/%s", strings.TrimRight(r.replicateConfig.ApiUrl, "/"), taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return r.send(req)
}

func (r *replicateVideoGenerator) send(req *http.Request) (*outbound.VideoTask, error) {
	req.Header.Set("Authorization", "Bearer "+r.replicateConfig.ApiToken)

	payload, err := r.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var prediction replicatePrediction
	if err := json.Unmarshal(payload, &prediction); err != nil {
		r.logger.Error(err, "Failed to unmarshal the prediction")
		return nil, err
	}

	task := &outbound.VideoTask{
		ID:        prediction.ID,
		Status:    outbound.VideoTaskStatus(prediction.Status),
		OutputURL: predictionOutputURL(prediction.Output),
	}
	if prediction.Error != nil {
		task.Error = fmt.Sprint(prediction.Error)
	}

	return task, nil
}

// predictionOutputURL accepts either a single URL or a list of URLs.
func predictionOutputURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[len(list)-1]
	}

	return ""
}

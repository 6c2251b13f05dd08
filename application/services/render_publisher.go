package services

import (
	"context"
	"fmt"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
)

const renderKeyPrefix = "renders/"

type renderPublisher struct {
	logger    outbound.LoggerPort
	publisher outbound.VideoPublisherPort
	ledger    outbound.RenderLedgerPort
}

// NewRenderPublisher accepts nil for either collaborator when it is not
// configured.
func NewRenderPublisher(logger outbound.LoggerPort, publisher outbound.VideoPublisherPort, ledger outbound.RenderLedgerPort) inbound.RenderPublisherPort {
	return &renderPublisher{
		logger:    logger,
		publisher: publisher,
		ledger:    ledger,
	}
}

func (r *renderPublisher) Publish(ctx context.Context, result domain.PipelineResult) string {
	if !result.Success {
		return ""
	}

	var videoURL string
	if r.publisher != nil {
		url, err := r.publisher.Publish(ctx, result.OutputPath, fmt.Sprintf("%s%s.mp4", renderKeyPrefix, result.RunID))
		if err != nil {
			r.logger.ErrorWithFields(err, "Failed to publish the video", map[string]interface{}{
				"runID":      result.RunID,
				"outputPath": result.OutputPath,
			})
		} else {
			videoURL = url
		}
	}

	if r.ledger != nil {
		if err := r.ledger.Save(ctx, domain.NewRenderRecord(result, videoURL)); err != nil {
			r.logger.ErrorWithFields(err, "Failed to save the render record", map[string]interface{}{
				"runID": result.RunID,
			})
		}
	}

	return videoURL
}

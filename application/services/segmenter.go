package services

import (
	"context"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/mock"
)

const (
	segmentationMaxTokens = 400
	segmentationPrompt    = "Break this script into sections for a video. Each section will be its own 'scene' in the video. " +
		"Please return as an array / json object with each section under the label 'text'. Script: "
)

type sectionText struct {
	Text string `json:"text" jsonschema_description:"The narration text of this scene, copied from the script."`
}

type segmentationReply struct {
	Sections []sectionText `json:"sections" jsonschema_description:"The scenes of the video in script order."`
}

type segmenter struct {
	logger     outbound.LoggerPort
	completion outbound.TextCompletionPort
}

func NewSegmenter(logger outbound.LoggerPort, completion outbound.TextCompletionPort) inbound.SegmenterPort {
	return &segmenter{
		logger:     logger,
		completion: completion,
	}
}

// Segment makes a single segmentation call. Any failure is answered with the
// fixed mock sections so later stages always get scenes.
func (s *segmenter) Segment(ctx context.Context, script string) domain.Result[[]domain.Scene] {
	if s.completion == nil {
		return s.placeholder(domain.ErrServiceNotConfigured)
	}

	reply, err := s.completion.Complete(ctx, outbound.CompletionRequest{
		Prompt:     segmentationPrompt + script,
		MaxTokens:  segmentationMaxTokens,
		ReplyName:  "script_sections",
		ReplyShape: segmentationReply{},
	})
	if err != nil {
		return s.placeholder(err)
	}

	items, err := decodeSceneItems(reply)
	if err != nil {
		return s.placeholder(err)
	}

	scenes := make([]domain.Scene, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		scenes = append(scenes, domain.NewScene(len(scenes), text))
	}
	if len(scenes) == 0 {
		return s.placeholder(domain.ErrNoSegments)
	}

	s.logger.InfoWithFields("Script segmented", map[string]interface{}{
		"scenes": len(scenes),
	})
	return domain.Ok(scenes)
}

func (s *segmenter) placeholder(cause error) domain.Result[[]domain.Scene] {
	s.logger.WarnWithFields("Using mock sections", map[string]interface{}{
		"reason": cause.Error(),
	})
	return domain.Substitute(mock.Sections(), domain.NewStageFailure(domain.StageSegmenting, cause))
}

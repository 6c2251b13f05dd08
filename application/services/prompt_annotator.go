package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/mock"
)

const (
	annotationMaxTokens   = 800
	annotationInstruction = "Add these to the JSON object with the label 'prompt' and keep the original 'text' section. Code: "
)

type annotatedSection struct {
	Text   string `json:"text" jsonschema_description:"The original narration text of the scene, unchanged."`
	Prompt string `json:"prompt" jsonschema_description:"The visual prompt for this scene."`
}

type annotationReply struct {
	Sections []annotatedSection `json:"sections" jsonschema_description:"The scenes in the same order as given."`
}

type promptAnnotator struct {
	logger     outbound.LoggerPort
	completion outbound.TextCompletionPort
}

func NewPromptAnnotator(logger outbound.LoggerPort, completion outbound.TextCompletionPort) inbound.PromptAnnotatorPort {
	return &promptAnnotator{
		logger:     logger,
		completion: completion,
	}
}

// Annotate never fails. Scene text and index always come from the input;
// only prompts are taken from the reply, with placeholders for anything the
// reply did not provide.
func (a *promptAnnotator) Annotate(ctx context.Context, scenes []domain.Scene, promptTemplate string) domain.Result[[]domain.Scene] {
	if a.completion == nil {
		return a.placeholder(scenes, domain.ErrServiceNotConfigured)
	}

	code, err := json.Marshal(toSectionTexts(scenes))
	if err != nil {
		return a.placeholder(scenes, err)
	}

	reply, err := a.completion.Complete(ctx, outbound.CompletionRequest{
		Prompt:     strings.TrimSpace(promptTemplate) + " " + annotationInstruction + string(code),
		MaxTokens:  annotationMaxTokens,
		ReplyName:  "scene_prompts",
		ReplyShape: annotationReply{},
	})
	if err != nil {
		return a.placeholder(scenes, err)
	}

	items, err := decodeSceneItems(reply)
	if err != nil {
		return a.placeholder(scenes, err)
	}
	if len(items) != len(scenes) {
		return a.placeholder(scenes, fmt.Errorf("reply has %d scenes, expected %d", len(items), len(scenes)))
	}

	annotated := make([]domain.Scene, len(scenes))
	filled := 0
	for i, scene := range scenes {
		prompt := strings.TrimSpace(items[i].Prompt)
		if prompt == "" {
			prompt = mock.PromptFor(i)
			filled++
		}
		annotated[i] = scene.WithPrompt(prompt)
	}

	if filled > 0 {
		a.logger.WarnWithFields("Filled missing prompts with placeholders", map[string]interface{}{
			"filled": filled,
			"scenes": len(scenes),
		})
		return domain.Substitute(annotated, domain.NewStageFailure(domain.StageAnnotating,
			fmt.Errorf("%d of %d prompts missing", filled, len(scenes))))
	}

	return domain.Ok(annotated)
}

func (a *promptAnnotator) placeholder(scenes []domain.Scene, cause error) domain.Result[[]domain.Scene] {
	a.logger.WarnWithFields("Using mock prompts", map[string]interface{}{
		"reason": cause.Error(),
	})

	annotated := make([]domain.Scene, len(scenes))
	for i, scene := range scenes {
		annotated[i] = scene.WithPrompt(mock.PromptFor(i))
	}
	return domain.Substitute(annotated, domain.NewStageFailure(domain.StageAnnotating, cause))
}

func toSectionTexts(scenes []domain.Scene) []sectionText {
	sections := make([]sectionText, 0, len(scenes))
	for _, scene := range scenes {
		sections = append(sections, sectionText{Text: scene.Text})
	}
	return sections
}

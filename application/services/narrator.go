package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/domain"
)

type narrator struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
}

func NewNarrator(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort) inbound.NarratorPort {
	return &narrator{
		logger:      logger,
		synthesizer: synthesizer,
	}
}

func (n *narrator) Narrate(ctx context.Context, params inbound.NarrateParams) domain.Result[domain.Narration] {
	scene := params.Scene
	if n.synthesizer == nil {
		return n.fail(scene, domain.ErrServiceNotConfigured)
	}
	if strings.TrimSpace(scene.Text) == "" {
		return n.fail(scene, domain.ErrEmptyInput)
	}

	speech, err := n.synthesizer.Synthesize(ctx, scene.Text)
	if err != nil {
		return n.fail(scene, err)
	}
	if len(speech.Audio) == 0 {
		return n.fail(scene, fmt.Errorf("speech service returned no audio"))
	}

	audioPath := filepath.Join(params.WorkDir, fmt.Sprintf("audio_%d.mp3", scene.Ordinal()))
	if err := os.WriteFile(audioPath, speech.Audio, 0o644); err != nil {
		return n.fail(scene, err)
	}

	n.logger.DebugWithFields("Narration written", map[string]interface{}{
		"scene": scene.Index,
		"path":  audioPath,
		"words": len(speech.Words),
	})

	return domain.Ok(domain.Narration{
		AudioPath: audioPath,
		Words:     speech.Words,
	})
}

func (n *narrator) fail(scene domain.Scene, err error) domain.Result[domain.Narration] {
	n.logger.ErrorWithFields(err, "Failed to narrate scene", map[string]interface{}{
		"scene": scene.Index,
	})
	return domain.Fail[domain.Narration](domain.NewSceneFailure(domain.StageNarrating, scene.Index, err))
}

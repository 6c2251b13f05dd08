package outbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type SpeechResult struct {
	Audio []byte
	Words []domain.TranscriptionWord
}

type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, text string) (*SpeechResult, error)
}

package outbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type MuxRequest struct {
	ClipPath   string
	AudioPath  string
	Words      []domain.TranscriptionWord
	OutputPath string
	Captions   bool
}

type SegmentMuxerPort interface {
	Mux(ctx context.Context, req MuxRequest) error
}

package outbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type ConcatenateVideosPort interface {
	Concatenate(ctx context.Context, segments []domain.SegmentArtifact, outputPath string) error
}

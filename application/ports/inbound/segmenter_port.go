package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type SegmenterPort interface {
	Segment(ctx context.Context, script string) domain.Result[[]domain.Scene]
}

package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type PromptAnnotatorPort interface {
	Annotate(ctx context.Context, scenes []domain.Scene, promptTemplate string) domain.Result[[]domain.Scene]
}

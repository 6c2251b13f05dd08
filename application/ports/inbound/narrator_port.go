package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type NarrateParams struct {
	Scene   domain.Scene
	WorkDir string
}

type NarratorPort interface {
	Narrate(ctx context.Context, params NarrateParams) domain.Result[domain.Narration]
}

package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type SynthesizeParams struct {
	Scene   domain.Scene
	Style   domain.StyleDescriptor
	WorkDir string
}

type MediaSynthesizerPort interface {
	Synthesize(ctx context.Context, params SynthesizeParams) domain.Result[domain.Scene]
}

package inbound

import (
	"context"

	"github.com/Cyr-Ch/filmmaker/domain"
)

type SynthesisResult struct {
	// Scenes that received a clip, ordered by index.
	Scenes   []domain.Scene
	Failures []*domain.StageFailure
}

type SegmentsResult struct {
	// Artifacts ordered by scene index.
	Artifacts []domain.SegmentArtifact
	Failures  []*domain.StageFailure
}

// SceneProcessorPort runs the per-scene stages. A scene that fails is left
// out of the result and reported in Failures; it never aborts the others.
type SceneProcessorPort interface {
	SynthesizeAll(ctx context.Context, scenes []domain.Scene, style domain.StyleDescriptor, workDir string) SynthesisResult
	NarrateAndMuxAll(ctx context.Context, scenes []domain.Scene, workDir string) SegmentsResult
}

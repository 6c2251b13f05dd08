package domain

import "fmt"

type Stage string

const (
	StageSegmenting     Stage = "segmenting"
	StageAnnotating     Stage = "annotating"
	StageResolvingStyle Stage = "resolving_style"
	StageSynthesizing   Stage = "synthesizing"
	StageNarrating      Stage = "narrating"
	StageMuxing         Stage = "muxing"
	StageAssembling     Stage = "assembling"
	StageFallback       Stage = "fallback"
	StageDone           Stage = "done"
)

// StageObserver is notified every time the pipeline enters a new stage.
type StageObserver func(stage Stage)

const noScene = -1

// StageFailure records which stage failed and, for scene-scoped failures,
// which scene.
type StageFailure struct {
	Stage Stage
	Scene int
	Err   error
}

func NewStageFailure(stage Stage, err error) *StageFailure {
	return &StageFailure{
		Stage: stage,
		Scene: noScene,
		Err:   err,
	}
}

func NewSceneFailure(stage Stage, sceneIndex int, err error) *StageFailure {
	return &StageFailure{
		Stage: stage,
		Scene: sceneIndex,
		Err:   err,
	}
}

func (f *StageFailure) SceneScoped() bool {
	return f.Scene != noScene
}

func (f *StageFailure) Error() string {
	if f.SceneScoped() {
		return fmt.Sprintf("%s failed for scene %d: %v", f.Stage, f.Scene, f.Err)
	}
	return fmt.Sprintf("%s failed: %v", f.Stage, f.Err)
}

func (f *StageFailure) Unwrap() error {
	return f.Err
}

// Result is the outcome of one stage. Failure is set when the stage produced
// nothing usable. Substituted is set when Value is a deterministic stand-in
// for what the stage could not obtain.
type Result[T any] struct {
	Value       T
	Failure     *StageFailure
	Substituted *StageFailure
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Substitute[T any](value T, cause *StageFailure) Result[T] {
	return Result[T]{Value: value, Substituted: cause}
}

func Fail[T any](failure *StageFailure) Result[T] {
	return Result[T]{Failure: failure}
}

func (r Result[T]) Failed() bool {
	return r.Failure != nil
}

func (r Result[T]) IsSubstitute() bool {
	return r.Substituted != nil
}

type ResultKind string

const (
	RenderedResultKind      ResultKind = "rendered"
	SingleSegmentResultKind ResultKind = "single_segment"
	FallbackResultKind      ResultKind = "fallback"
)

type PipelineResult struct {
	Success       bool       `json:"success"`
	OutputPath    string     `json:"video_path"`
	Kind          ResultKind `json:"kind"`
	RunID         string     `json:"run_id"`
	Style         string     `json:"style"`
	SegmentCount  int        `json:"segment_count"`
	SkippedScenes []int      `json:"skipped_scenes,omitempty"`
}

func (r PipelineResult) Degraded() bool {
	return r.Kind != RenderedResultKind
}

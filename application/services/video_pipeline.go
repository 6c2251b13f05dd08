package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/Cyr-Ch/filmmaker/file_utils"
	"github.com/google/uuid"
)

type VideoPipelineDeps struct {
	Styles       inbound.StyleResolverPort
	Segmenter    inbound.SegmenterPort
	Annotator    inbound.PromptAnnotatorPort
	Processor    inbound.SceneProcessorPort
	Concatenator outbound.ConcatenateVideosPort
	Fallback     outbound.FallbackVideoPort
}

type videoPipeline struct {
	logger         outbound.LoggerPort
	deps           VideoPipelineDeps
	pipelineConfig *config.PipelineConfig
	copyFile       func(src string, dst string) error
	newRunID       func() string
}

func NewVideoPipeline(logger outbound.LoggerPort, deps VideoPipelineDeps, pipelineConfig *config.PipelineConfig) inbound.VideoPipelinePort {
	return &videoPipeline{
		logger:         logger,
		deps:           deps,
		pipelineConfig: pipelineConfig,
		copyFile:       file_utils.CopyFile,
		newRunID:       uuid.NewString,
	}
}

// pipelineRun carries the state of one Run call.
type pipelineRun struct {
	id       string
	req      inbound.PipelineRequest
	style    string
	workDir  string
	logger   outbound.LoggerPort
	skipped  []int
	segments int
}

func (r *pipelineRun) enter(stage domain.Stage) {
	r.logger.DebugWithFields("Entering stage", map[string]interface{}{
		"stage": stage,
	})
	if r.req.Observer != nil {
		r.req.Observer(stage)
	}
}

func (r *pipelineRun) result(kind domain.ResultKind) *domain.PipelineResult {
	return &domain.PipelineResult{
		Success:       true,
		OutputPath:    r.req.OutputPath,
		Kind:          kind,
		RunID:         r.id,
		Style:         r.style,
		SegmentCount:  r.segments,
		SkippedScenes: r.skipped,
	}
}

// Run always leaves a playable video at req.OutputPath unless it returns an
// error wrapping domain.ErrFallbackFailed.
func (p *videoPipeline) Run(ctx context.Context, req inbound.PipelineRequest) (*domain.PipelineResult, error) {
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, domain.ErrMissingOutputPath
	}

	run := &pipelineRun{
		id:    p.newRunID(),
		req:   req,
		style: strings.TrimSpace(req.Style),
	}
	if run.style == "" {
		run.style = p.pipelineConfig.DefaultStyle
	}
	run.logger = p.logger.With(map[string]interface{}{
		"runID": run.id,
		"style": run.style,
	})

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		run.logger.ErrorWithFields(err, "Failed to create the output directory", map[string]interface{}{
			"outputPath": req.OutputPath,
		})
	}

	if strings.TrimSpace(req.Script) == "" {
		return p.fallback(ctx, run, domain.NewStageFailure(domain.StageSegmenting, domain.ErrEmptyInput))
	}

	run.enter(domain.StageResolvingStyle)
	style := p.deps.Styles.Resolve(run.style)
	if style.Failed() {
		return p.fallback(ctx, run, style.Failure)
	}

	run.workDir = filepath.Join(p.pipelineConfig.WorkDir, run.id)
	if err := os.MkdirAll(run.workDir, 0o755); err != nil {
		return p.fallback(ctx, run, domain.NewStageFailure(domain.StageSynthesizing, err))
	}
	defer p.cleanup(run)

	run.enter(domain.StageSegmenting)
	segmented := p.deps.Segmenter.Segment(ctx, req.Script)
	if segmented.Failed() {
		return p.fallback(ctx, run, segmented.Failure)
	}
	p.warnSubstitute(run, segmented.Substituted)

	run.enter(domain.StageAnnotating)
	annotated := p.deps.Annotator.Annotate(ctx, segmented.Value, style.Value.PromptTemplate)
	if annotated.Failed() {
		return p.fallback(ctx, run, annotated.Failure)
	}
	p.warnSubstitute(run, annotated.Substituted)

	run.enter(domain.StageSynthesizing)
	synthesis := p.deps.Processor.SynthesizeAll(ctx, annotated.Value, style.Value, run.workDir)
	p.skip(run, synthesis.Failures)

	run.enter(domain.StageNarrating)
	segments := p.deps.Processor.NarrateAndMuxAll(ctx, synthesis.Scenes, run.workDir)
	run.enter(domain.StageMuxing)
	p.skip(run, segments.Failures)
	run.segments = len(segments.Artifacts)

	if len(segments.Artifacts) == 0 {
		return p.fallback(ctx, run, domain.NewStageFailure(domain.StageMuxing, domain.ErrNoSegments))
	}

	run.enter(domain.StageAssembling)
	err := p.deps.Concatenator.Concatenate(ctx, segments.Artifacts, req.OutputPath)
	if err == nil {
		run.logger.InfoWithFields("Video assembled", map[string]interface{}{
			"segments": run.segments,
			"skipped":  run.skipped,
		})
		run.enter(domain.StageDone)
		return run.result(domain.RenderedResultKind), nil
	}

	run.logger.WarnWithFields("Assembly failed, using the first segment", map[string]interface{}{
		"error":   err.Error(),
		"segment": segments.Artifacts[0].VideoPath,
	})
	if copyErr := p.copyFile(segments.Artifacts[0].VideoPath, req.OutputPath); copyErr != nil {
		return p.fallback(ctx, run, domain.NewStageFailure(domain.StageAssembling, errors.Join(err, copyErr)))
	}

	run.segments = 1
	run.enter(domain.StageDone)
	return run.result(domain.SingleSegmentResultKind), nil
}

func (p *videoPipeline) fallback(ctx context.Context, run *pipelineRun, cause *domain.StageFailure) (*domain.PipelineResult, error) {
	run.logger.WarnWithFields("Falling back to the slideshow video", map[string]interface{}{
		"stage":  cause.Stage,
		"reason": cause.Error(),
	})
	run.enter(domain.StageFallback)

	// The slideshow is local and short, so it still runs after cancellation.
	err := p.deps.Fallback.Create(context.WithoutCancel(ctx), run.req.Script, run.req.OutputPath)
	if err != nil {
		run.logger.ErrorWithFields(err, "Failed to create the fallback video", map[string]interface{}{
			"outputPath": run.req.OutputPath,
		})
		return nil, fmt.Errorf("%w: %w", domain.ErrFallbackFailed, err)
	}

	run.segments = 0
	run.enter(domain.StageDone)
	return run.result(domain.FallbackResultKind), nil
}

func (p *videoPipeline) skip(run *pipelineRun, failures []*domain.StageFailure) {
	for _, failure := range failures {
		run.skipped = append(run.skipped, failure.Scene)
		run.logger.WarnWithFields("Skipping scene", map[string]interface{}{
			"scene":  failure.Scene,
			"stage":  failure.Stage,
			"reason": failure.Err.Error(),
		})
	}
}

func (p *videoPipeline) warnSubstitute(run *pipelineRun, cause *domain.StageFailure) {
	if cause == nil {
		return
	}
	run.logger.WarnWithFields("Continuing with placeholder data", map[string]interface{}{
		"stage":  cause.Stage,
		"reason": cause.Error(),
	})
}

func (p *videoPipeline) cleanup(run *pipelineRun) {
	if p.pipelineConfig.KeepWorkDir {
		return
	}
	if err := os.RemoveAll(run.workDir); err != nil {
		run.logger.ErrorWithFields(err, "Failed to remove the work dir", map[string]interface{}{
			"workDir": run.workDir,
		})
	}
}

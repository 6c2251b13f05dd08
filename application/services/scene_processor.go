package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"golang.org/x/sync/errgroup"
)

type sceneProcessor struct {
	logger         outbound.LoggerPort
	synthesizer    inbound.MediaSynthesizerPort
	narrator       inbound.NarratorPort
	muxer          outbound.SegmentMuxerPort
	pipelineConfig *config.PipelineConfig
}

func NewSceneProcessor(logger outbound.LoggerPort, synthesizer inbound.MediaSynthesizerPort, narrator inbound.NarratorPort,
	muxer outbound.SegmentMuxerPort, pipelineConfig *config.PipelineConfig) inbound.SceneProcessorPort {
	return &sceneProcessor{
		logger:         logger,
		synthesizer:    synthesizer,
		narrator:       narrator,
		muxer:          muxer,
		pipelineConfig: pipelineConfig,
	}
}

func (p *sceneProcessor) SynthesizeAll(ctx context.Context, scenes []domain.Scene, style domain.StyleDescriptor, workDir string) inbound.SynthesisResult {
	results := make([]domain.Result[domain.Scene], len(scenes))

	p.forEach(len(scenes), func(i int) {
		results[i] = p.synthesizer.Synthesize(ctx, inbound.SynthesizeParams{
			Scene:   scenes[i],
			Style:   style,
			WorkDir: workDir,
		})
	})

	var out inbound.SynthesisResult
	for _, res := range results {
		if res.Failed() {
			out.Failures = append(out.Failures, res.Failure)
			continue
		}
		out.Scenes = append(out.Scenes, res.Value)
	}
	sort.SliceStable(out.Scenes, func(i, j int) bool {
		return out.Scenes[i].Index < out.Scenes[j].Index
	})
	return out
}

func (p *sceneProcessor) NarrateAndMuxAll(ctx context.Context, scenes []domain.Scene, workDir string) inbound.SegmentsResult {
	artifacts := make([]*domain.SegmentArtifact, len(scenes))
	failures := make([]*domain.StageFailure, len(scenes))

	p.forEach(len(scenes), func(i int) {
		artifacts[i], failures[i] = p.narrateAndMux(ctx, scenes[i], workDir)
	})

	var out inbound.SegmentsResult
	for i := range scenes {
		if failures[i] != nil {
			out.Failures = append(out.Failures, failures[i])
			continue
		}
		out.Artifacts = append(out.Artifacts, *artifacts[i])
	}
	sort.Stable(domain.SegmentArtifactsAscByIndex(out.Artifacts))
	return out
}

func (p *sceneProcessor) narrateAndMux(ctx context.Context, scene domain.Scene, workDir string) (*domain.SegmentArtifact, *domain.StageFailure) {
	if scene.ClipRef == "" {
		return nil, domain.NewSceneFailure(domain.StageMuxing, scene.Index, domain.ErrNoClip)
	}

	narration := p.narrator.Narrate(ctx, inbound.NarrateParams{
		Scene:   scene,
		WorkDir: workDir,
	})
	if narration.Failed() {
		return nil, narration.Failure
	}

	outputPath := filepath.Join(workDir, fmt.Sprintf("output_%d.mp4", scene.Ordinal()))
	err := p.muxer.Mux(ctx, outbound.MuxRequest{
		ClipPath:   scene.ClipRef,
		AudioPath:  narration.Value.AudioPath,
		Words:      narration.Value.Words,
		OutputPath: outputPath,
		Captions:   p.pipelineConfig.CaptionsEnabled,
	})
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to mux segment", map[string]interface{}{
			"scene": scene.Index,
		})
		return nil, domain.NewSceneFailure(domain.StageMuxing, scene.Index, err)
	}

	return &domain.SegmentArtifact{
		SceneIndex: scene.Index,
		VideoPath:  outputPath,
	}, nil
}

// forEach runs fn for every index with at most SceneWorkers in flight. fn
// records its own outcome, so one scene failing never stops the others.
func (p *sceneProcessor) forEach(n int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(p.workers())

	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *sceneProcessor) workers() int {
	if p.pipelineConfig == nil || p.pipelineConfig.SceneWorkers < 1 {
		return 1
	}
	return p.pipelineConfig.SceneWorkers
}

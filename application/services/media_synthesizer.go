package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
)

const targetClipWidth = 1280

var stockQualityRank = map[string]int{
	"uhd": 3,
	"hd":  2,
	"sd":  1,
}

type mediaSynthesizer struct {
	logger          outbound.LoggerPort
	videoGenerator  outbound.VideoGeneratorPort
	stockSearch     outbound.StockVideoSearchPort
	downloader      outbound.MediaDownloaderPort
	replicateConfig *config.ReplicateConfig
}

func NewMediaSynthesizer(logger outbound.LoggerPort, videoGenerator outbound.VideoGeneratorPort, stockSearch outbound.StockVideoSearchPort,
	downloader outbound.MediaDownloaderPort, replicateConfig *config.ReplicateConfig) inbound.MediaSynthesizerPort {
	return &mediaSynthesizer{
		logger:          logger,
		videoGenerator:  videoGenerator,
		stockSearch:     stockSearch,
		downloader:      downloader,
		replicateConfig: replicateConfig,
	}
}

func (m *mediaSynthesizer) Synthesize(ctx context.Context, params inbound.SynthesizeParams) domain.Result[domain.Scene] {
	var (
		clipURL string
		err     error
	)

	switch params.Style.Kind {
	case domain.GeneratedSyntheticKind:
		clipURL, err = m.generate(ctx, params.Scene, params.Style)
	case domain.StockSyntheticKind:
		clipURL, err = m.searchStock(ctx, params.Scene)
	default:
		err = fmt.Errorf("unsupported synthetic kind %q", params.Style.Kind)
	}
	if err != nil {
		return m.fail(params.Scene, err)
	}

	clipPath := filepath.Join(params.WorkDir, fmt.Sprintf("clip_%d.mp4", params.Scene.Ordinal()))
	if err := m.downloader.Download(ctx, clipURL, clipPath); err != nil {
		return m.fail(params.Scene, err)
	}

	return domain.Ok(params.Scene.WithClip(clipPath))
}

func (m *mediaSynthesizer) generate(ctx context.Context, scene domain.Scene, style domain.StyleDescriptor) (string, error) {
	if m.videoGenerator == nil {
		return "", domain.ErrServiceNotConfigured
	}
	prompt := strings.TrimSpace(scene.Prompt)
	if prompt == "" {
		prompt = scene.Text
	}

	task, err := m.videoGenerator.CreateTask(ctx, style.Model, prompt)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, m.replicateConfig.Timeout)
	defer cancel()

	for !task.Finished() {
		if err := m.wait(ctx); err != nil {
			return "", fmt.Errorf("video task %s did not finish: %w", task.ID, err)
		}
		task, err = m.videoGenerator.GetTask(ctx, task.ID)
		if err != nil {
			return "", err
		}
		m.logger.DebugWithFields("Polled video task", map[string]interface{}{
			"scene":  scene.Index,
			"taskID": task.ID,
			"status": task.Status,
		})
	}

	if task.Status != outbound.SucceededVideoTaskStatus {
		return "", fmt.Errorf("video task %s ended as %s: %s", task.ID, task.Status, task.Error)
	}
	if task.OutputURL == "" {
		return "", fmt.Errorf("video task %s succeeded without output: %w", task.ID, domain.ErrNoClip)
	}
	return task.OutputURL, nil
}

func (m *mediaSynthesizer) wait(ctx context.Context) error {
	timer := time.NewTimer(m.replicateConfig.PollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *mediaSynthesizer) searchStock(ctx context.Context, scene domain.Scene) (string, error) {
	if m.stockSearch == nil {
		return "", domain.ErrServiceNotConfigured
	}
	query := strings.TrimSpace(scene.Prompt)
	if query == "" {
		query = strings.TrimSpace(scene.Text)
	}

	clips, err := m.stockSearch.Search(ctx, query)
	if err != nil {
		return "", err
	}

	best, ok := pickStockClip(clips)
	if !ok {
		return "", fmt.Errorf("%w: no stock result for %q", domain.ErrNoClip, query)
	}
	return best.URL, nil
}

// pickStockClip prefers mp4 files whose width is closest to the segment
// width, then the higher quality.
func pickStockClip(clips []outbound.StockClip) (outbound.StockClip, bool) {
	var (
		best  outbound.StockClip
		found bool
	)
	for _, clip := range clips {
		if clip.URL == "" || !isMp4(clip.FileType) {
			continue
		}
		if !found || betterStockClip(clip, best) {
			best = clip
			found = true
		}
	}
	return best, found
}

func betterStockClip(candidate, current outbound.StockClip) bool {
	candidateDistance := absInt(candidate.Width - targetClipWidth)
	currentDistance := absInt(current.Width - targetClipWidth)
	if candidateDistance != currentDistance {
		return candidateDistance < currentDistance
	}
	return stockQualityRank[strings.ToLower(candidate.Quality)] > stockQualityRank[strings.ToLower(current.Quality)]
}

func isMp4(fileType string) bool {
	fileType = strings.ToLower(fileType)
	return fileType == "video/mp4" || fileType == "mp4"
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (m *mediaSynthesizer) fail(scene domain.Scene, err error) domain.Result[domain.Scene] {
	fields := map[string]interface{}{
		"scene": scene.Index,
	}
	if errors.Is(err, context.Canceled) {
		m.logger.WarnWithFields("Media synthesis canceled", fields)
	} else {
		m.logger.ErrorWithFields(err, "Failed to synthesize media", fields)
	}
	return domain.Fail[domain.Scene](domain.NewSceneFailure(domain.StageSynthesizing, scene.Index, err))
}

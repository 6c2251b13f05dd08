package adapters

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
)

type ffmpegVideoConcatenate struct {
	logger         outbound.LoggerPort
	runner         outbound.CommandRunner
	pipelineConfig *config.PipelineConfig
}

func NewFFmpegVideoConcatenate(runner outbound.CommandRunner, pipelineConfig *config.PipelineConfig, logger outbound.LoggerPort) outbound.ConcatenateVideosPort {
	return &ffmpegVideoConcatenate{
		logger:         logger,
		runner:         runner,
		pipelineConfig: pipelineConfig,
	}
}

func (f *ffmpegVideoConcatenate) Concatenate(ctx context.Context, segments []domain.SegmentArtifact, outputPath string) error {
	if len(segments) == 0 {
		return domain.ErrNoSegments
	}

	ordered := make([]domain.SegmentArtifact, len(segments))
	copy(ordered, segments)
	sort.Stable(domain.SegmentArtifactsAscByIndex(ordered))

	// The list sits next to the segments so it stays inside the run's work dir.
	fileList, err := os.CreateTemp(filepath.Dir(ordered[0].VideoPath), "concat-*.txt")
	if err != nil {
		f.logger.Error(err, "Failed to create video list file")
		return err
	}
	defer func(name string) {
		if err := os.Remove(name); err != nil {
			f.logger.Error(err, "Failed to remove video list file")
		}
	}(fileList.Name())

	writer := bufio.NewWriter(fileList)
	for _, s := range ordered {
		absPath, err := filepath.Abs(s.VideoPath)
		if err != nil {
			_ = fileList.Close()
			return err
		}
		if _, err := writer.WriteString("file '" + strings.ReplaceAll(absPath, "'", `'\''`) + "'\n"); err != nil {
			f.logger.Error(err, "Failed to write to video list file")
			_ = fileList.Close()
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		f.logger.Error(err, "Failed to flush video list file")
		_ = fileList.Close()
		return err
	}
	if err := fileList.Close(); err != nil {
		f.logger.Error(err, "Failed to close video list file")
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	_, err = f.runner.Run(ctx, f.pipelineConfig.FfmpegPath, "-y", "-f", "concat", "-safe", "0",
		"-i", fileList.Name(), "-c", "copy", "-movflags", "+faststart", outputPath)
	if err != nil {
		f.logger.ErrorWithFields(err, "Failed to concatenate videos", map[string]interface{}{
			"segments": len(ordered),
			"output":   outputPath,
		})
		return err
	}

	if info, err := os.Stat(outputPath); err != nil || info.Size() == 0 {
		return fmt.Errorf("concatenated video %s is missing or empty", outputPath)
	}

	return nil
}

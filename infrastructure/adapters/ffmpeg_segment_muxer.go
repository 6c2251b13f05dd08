package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
)

const (
	segmentWidth  = 1280
	segmentHeight = 720
	segmentFps    = 30
)

type ffmpegSegmentMuxer struct {
	logger         outbound.LoggerPort
	runner         outbound.CommandRunner
	pipelineConfig *config.PipelineConfig
}

func NewFFmpegSegmentMuxer(runner outbound.CommandRunner, pipelineConfig *config.PipelineConfig, logger outbound.LoggerPort) outbound.SegmentMuxerPort {
	return &ffmpegSegmentMuxer{
		logger:         logger,
		runner:         runner,
		pipelineConfig: pipelineConfig,
	}
}

// Mux renders the clip under the narration. The narration length decides the
// segment length: the clip is looped and cut to fit it.
func (m *ffmpegSegmentMuxer) Mux(ctx context.Context, req outbound.MuxRequest) error {
	duration, err := probeDuration(ctx, m.runner, m.pipelineConfig.FfprobePath, req.AudioPath)
	if err != nil {
		m.logger.ErrorWithFields(err, "Failed to probe narration duration", map[string]interface{}{
			"audio": req.AudioPath,
		})
		return fmt.Errorf("failed to probe narration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return err
	}

	if req.Captions && len(req.Words) > 0 {
		srtPath := strings.TrimSuffix(req.OutputPath, filepath.Ext(req.OutputPath)) + ".srt"
		written, err := writeSRT(srtPath, req.Words)
		switch {
		case err != nil:
			m.logger.WarnWithFields("Failed to write captions, muxing without them", map[string]interface{}{
				"error": err.Error(),
				"path":  srtPath,
			})
		case written:
			err = m.encode(ctx, req, duration, srtPath)
			if err == nil {
				return nil
			}
			m.logger.WarnWithFields("Captioned mux failed, muxing without captions", map[string]interface{}{
				"error":  err.Error(),
				"output": req.OutputPath,
			})
		}
	}

	return m.encode(ctx, req, duration, "")
}

func (m *ffmpegSegmentMuxer) encode(ctx context.Context, req outbound.MuxRequest, duration float64, srtPath string) error {
	_, err := m.runner.Run(ctx, m.pipelineConfig.FfmpegPath, muxArgs(req, duration, srtPath)...)
	if err != nil {
		m.logger.ErrorWithFields(err, "Failed to mux segment", map[string]interface{}{
			"clip":   req.ClipPath,
			"audio":  req.AudioPath,
			"output": req.OutputPath,
		})
		return err
	}
	return nil
}

func muxArgs(req outbound.MuxRequest, duration float64, srtPath string) []string {
	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d",
		segmentWidth, segmentHeight, segmentWidth, segmentHeight, segmentFps)
	if srtPath != "" {
		filter += ",subtitles=" + escapeFilterPath(srtPath) +
			":force_style='FontSize=18,PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,Outline=2,Alignment=2,MarginV=30'"
	}

	return []string{
		"-y",
		"-stream_loop", "-1",
		"-i", req.ClipPath,
		"-i", req.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-ar", "44100",
		"-ac", "2",
		"-movflags", "+faststart",
		req.OutputPath,
	}
}

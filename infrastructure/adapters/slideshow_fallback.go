package adapters

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/file_utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	slideWidth      = 1280
	slideHeight     = 720
	slideMargin     = 60
	slideFontSize   = 40
	slideLineLength = 80
	maxSlides       = 10
	slideFrameRate  = "0.5"
)

type slideshowFallback struct {
	logger         outbound.LoggerPort
	runner         outbound.CommandRunner
	pipelineConfig *config.PipelineConfig
	font           *opentype.Font
}

func NewSlideshowFallback(runner outbound.CommandRunner, pipelineConfig *config.PipelineConfig, logger outbound.LoggerPort) (outbound.FallbackVideoPort, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse slide font: %w", err)
	}

	return &slideshowFallback{
		logger:         logger,
		runner:         runner,
		pipelineConfig: pipelineConfig,
		font:           parsed,
	}, nil
}

// Create renders one slide per script chunk and encodes them at one slide
// every two seconds.
func (s *slideshowFallback) Create(ctx context.Context, script string, outputPath string) error {
	tempDir, err := os.MkdirTemp("", "fallback-*")
	if err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			s.logger.Error(err, "Failed to remove fallback temp dir")
		}
	}()

	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    slideFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create slide font face: %w", err)
	}
	defer face.Close()

	chunks := WrapScript(script)
	for i, chunk := range chunks {
		framePath := filepath.Join(tempDir, fmt.Sprintf("frame_%03d.jpg", i))
		if err := writeSlide(framePath, renderSlide(face, chunk)); err != nil {
			return fmt.Errorf("failed to write slide %d: %w", i, err)
		}
	}

	videoPath := filepath.Join(tempDir, "fallback_video.mp4")
	_, err = s.runner.Run(ctx, s.pipelineConfig.FfmpegPath, "-y", "-framerate", slideFrameRate,
		"-i", filepath.Join(tempDir, "frame_%03d.jpg"),
		"-c:v", "libx264", "-pix_fmt", "yuv420p", videoPath)
	if err != nil {
		s.logger.Error(err, "Failed to encode fallback slides")
		return err
	}

	if err := file_utils.CopyFile(videoPath, outputPath); err != nil {
		s.logger.ErrorWithFields(err, "Failed to copy fallback video", map[string]interface{}{
			"output": outputPath,
		})
		return err
	}

	s.logger.InfoWithFields("Fallback video created", map[string]interface{}{
		"slides": len(chunks),
		"output": outputPath,
	})
	return nil
}

// WrapScript splits script into at most maxSlides chunks of at most
// slideLineLength characters, breaking on whitespace. Longer words are cut.
// A blank script yields a single empty chunk.
func WrapScript(script string) []string {
	var (
		chunks  []string
		current string
	)
	for _, word := range strings.Fields(script) {
		for len([]rune(word)) > slideLineLength {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			runes := []rune(word)
			chunks = append(chunks, string(runes[:slideLineLength]))
			word = string(runes[slideLineLength:])
		}
		switch {
		case current == "":
			current = word
		case len([]rune(current))+1+len([]rune(word)) <= slideLineLength:
			current += " " + word
		default:
			chunks = append(chunks, current)
			current = word
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	if len(chunks) == 0 {
		return []string{""}
	}
	if len(chunks) > maxSlides {
		chunks = chunks[:maxSlides]
	}
	return chunks
}

func renderSlide(face font.Face, text string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, slideWidth, slideHeight))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	if text == "" {
		return img
	}

	drawer := &font.Drawer{Dst: img, Src: image.White, Face: face}
	lines := fitLines(drawer, text, slideWidth-2*slideMargin)

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight <= 0 {
		lineHeight = (metrics.Ascent + metrics.Descent).Ceil()
	}
	blockHeight := lineHeight * len(lines)
	top := (slideHeight - blockHeight) / 2

	for i, line := range lines {
		width := drawer.MeasureString(line).Ceil()
		x := (slideWidth - width) / 2
		if x < 0 {
			x = 0
		}
		y := top + i*lineHeight + metrics.Ascent.Ceil()
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
	}
	return img
}

// fitLines breaks text so each line renders within maxWidth pixels.
func fitLines(drawer *font.Drawer, text string, maxWidth int) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && drawer.MeasureString(candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func writeSlide(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

package adapters

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
)

func probeDuration(ctx context.Context, runner outbound.CommandRunner, ffprobePath string, filePath string) (float64, error) {
	out, err := runner.Run(ctx, ffprobePath, "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)
	if err != nil {
		return 0, err
	}

	durationStr := strings.TrimSpace(string(out))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", durationStr, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("media %s has no duration", filePath)
	}

	return duration, nil
}

package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
)

const stderrTailLength = 512

type execCommandRunner struct {
	logger outbound.LoggerPort
}

func NewExecCommandRunner(logger outbound.LoggerPort) outbound.CommandRunner {
	return &execCommandRunner{
		logger: logger,
	}
}

// Run returns the command's stdout. On failure the error carries the tail of
// stderr.
func (e *execCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.DebugWithFields("Running command", map[string]interface{}{
		"command": name,
		"args":    strings.Join(args, " "),
	})

	if err := cmd.Run(); err != nil {
		tail := stderr.String()
		if len(tail) > stderrTailLength {
			tail = tail[len(tail)-stderrTailLength:]
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(tail))
	}

	return stdout.Bytes(), nil
}

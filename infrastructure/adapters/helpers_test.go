package adapters

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/rs/zerolog"
)

func testLogger() outbound.LoggerPort {
	return NewZerologWrapperWithWriter(io.Discard, zerolog.Disabled)
}

func testPipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		FfmpegPath:      "ffmpeg",
		FfprobePath:     "ffprobe",
		CaptionsEnabled: true,
	}
}

// fakeRunner records commands. ffprobe answers with a fixed duration and
// ffmpeg writes a small file at its last argument.
type fakeRunner struct {
	mu       sync.Mutex
	commands [][]string
	failWhen func(args []string) bool
	inspect  func(args []string)
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.commands = append(f.commands, append([]string{name}, args...))
	f.mu.Unlock()

	if f.inspect != nil {
		f.inspect(args)
	}
	if f.failWhen != nil && f.failWhen(args) {
		return nil, errFakeCommand
	}
	if name == "ffprobe" {
		return []byte("3.500000\n"), nil
	}
	if len(args) > 0 {
		out := args[len(args)-1]
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(out, []byte("video"), 0o644); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (f *fakeRunner) ffmpegCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var calls [][]string
	for _, cmd := range f.commands {
		if cmd[0] == "ffmpeg" {
			calls = append(calls, cmd)
		}
	}
	return calls
}

type fakeCommandError string

func (e fakeCommandError) Error() string {
	return string(e)
}

const errFakeCommand = fakeCommandError("command failed")

func hasArg(args []string, value string) bool {
	for _, arg := range args {
		if arg == value || strings.Contains(arg, value) {
			return true
		}
	}
	return false
}

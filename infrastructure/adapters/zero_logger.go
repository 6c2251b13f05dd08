package adapters

import (
	"io"
	"os"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/rs/zerolog"
)

type zerologWrapper struct {
	logger zerolog.Logger
}

func NewZerologWrapper(logConfig *config.LogConfig) outbound.LoggerPort {
	var out io.Writer = os.Stderr
	if logConfig != nil && strings.EqualFold(logConfig.Format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	level := zerolog.InfoLevel
	if logConfig != nil {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(logConfig.Level)); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}

	return NewZerologWrapperWithWriter(out, level)
}

func NewZerologWrapperWithWriter(out io.Writer, level zerolog.Level) outbound.LoggerPort {
	return &zerologWrapper{
		logger: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

func (z *zerologWrapper) With(fields map[string]interface{}) outbound.LoggerPort {
	return &zerologWrapper{
		logger: z.logger.With().Fields(fields).Logger(),
	}
}

func (z *zerologWrapper) Info(msg string) {
	z.logger.Info().Msg(msg)
}

func (z *zerologWrapper) Error(err error, msg string) {
	z.logger.Error().Err(err).Msg(msg)
}

func (z *zerologWrapper) Debug(msg string) {
	z.logger.Debug().Msg(msg)
}

func (z *zerologWrapper) Warn(msg string) {
	z.logger.Warn().Msg(msg)
}

func (z *zerologWrapper) InfoWithFields(msg string, fields map[string]interface{}) {
	z.logger.Info().Fields(fields).Msg(msg)
}

func (z *zerologWrapper) ErrorWithFields(err error, msg string, fields map[string]interface{}) {
	z.logger.Error().Err(err).Fields(fields).Msg(msg)
}

func (z *zerologWrapper) DebugWithFields(msg string, fields map[string]interface{}) {
	z.logger.Debug().Fields(fields).Msg(msg)
}

func (z *zerologWrapper) WarnWithFields(msg string, fields map[string]interface{}) {
	z.logger.Warn().Fields(fields).Msg(msg)
}

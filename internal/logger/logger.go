package logger

import (
	"os"
	"strings"

	"github.com/MahdiRahman4/CodeJam2025/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process logger at the configured level.
func New(cfg *config.Config) zerolog.Logger {
	return SetLevel(ParseLevel(cfg.LogLevel))
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

// ParseLevel falls back to info for empty or unknown values.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

var Module = fx.Provide(New)

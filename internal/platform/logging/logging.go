package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ehr/fhirview/internal/config"
)

// New builds the process logger: JSON lines on stdout, or a console writer in
// development. An unknown level falls back to info.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg != nil && cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stdout && out != os.Stderr}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()

	level := zerolog.InfoLevel
	if cfg != nil {
		if l, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && l != zerolog.NoLevel {
			level = l
		}
	}
	return logger.Level(level)
}

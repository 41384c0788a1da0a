package logger

import (
	"io"
	"os"
	"promptcanvas/internal/config"

	"github.com/rs/zerolog"
)

func New(logCfg config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(logCfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if logCfg.Format == "console" {
		out = zerolog.NewConsoleWriter()
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger and installs it as the global one. format is
// "text" for a console writer or "json".
func New(level, format string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}

	var w io.Writer
	switch format {
	case "", "text":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	case "json":
		w = out
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	l := zerolog.New(w).With().Timestamp().Caller().Logger()
	log.Logger = l
	return l, nil
}

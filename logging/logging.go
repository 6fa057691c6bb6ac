// Package logging builds the zerolog loggers used by the bootstrap and the tools.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFile is where the in-process bootstrap writes its log next to the host executable.
const DefaultFile = "d3d9_proxy_mod.log"

// Config contains logger configuration.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Unknown values mean info.
	Level string
	// Pretty writes human readable console output instead of JSON.
	Pretty bool
	// Output is the console writer, os.Stderr when nil.
	Output io.Writer
	// File additionally writes JSON records to this path when set.
	File string
}

// DefaultConfig logs everything from debug up to the console and DefaultFile.
func DefaultConfig() Config {
	return Config{
		Level:  "debug",
		Pretty: true,
		Output: os.Stderr,
		File:   DefaultFile,
	}
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger from cfg. The returned closer releases the log file;
// if the file cannot be created the logger keeps the console only and err
// tells why.
func New(cfg Config) (l zerolog.Logger, closer io.Closer, err error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	closer = nop{}
	if cfg.File != "" {
		var f *os.File
		if f, err = os.Create(cfg.File); err == nil {
			out = zerolog.MultiLevelWriter(out, f)
			closer = f
		}
	}
	l = zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	return
}

// WithComponent tags every record of l with a component name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

type nop struct{}

func (nop) Close() error { return nil }

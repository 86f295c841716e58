package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Log levels accepted in logging.level.
const (
	LogLevelOff   = "off"
	LogLevelError = "error"
	LogLevelWarn  = "warn"
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
)

// parseLevel converts a config level to a zerolog level.
func parseLevel(level string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LogLevelOff, "none", "":
		return zerolog.Disabled, true
	case LogLevelError:
		return zerolog.ErrorLevel, true
	case LogLevelWarn:
		return zerolog.WarnLevel, true
	case LogLevelInfo:
		return zerolog.InfoLevel, true
	case LogLevelDebug:
		return zerolog.DebugLevel, true
	default:
		return zerolog.Disabled, false
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the application logger from cfg. Output goes to
// cfg.File when set and to stderr otherwise; JSON selects structured lines
// over the console format. Files are always JSON. The returned Closer
// releases the log file.
//
// Level "off" yields a disabled logger and opens nothing.
func NewLogger(cfg LoggingConfig, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl, ok := parseLevel(cfg.Level)
	if !ok {
		lvl = zerolog.ErrorLevel
	}
	if lvl == zerolog.Disabled {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if cfg.File == "" {
		var w io.Writer = stderr
		if !cfg.JSON {
			w = zerolog.ConsoleWriter{
				Out:        stderr,
				TimeFormat: "15:04:05",
				NoColor:    true,
			}
		}
		return newLogger(w, lvl), nopCloser{}, nil
	}

	path, err := ExpandPath(cfg.File)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	// Ensure directory exists
	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	return newLogger(f, lvl), f, nil
}

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

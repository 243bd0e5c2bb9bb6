package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the logger level, format and destination.
type Options struct {
	Level  slog.Level
	Format string
	Output io.Writer // defaults to os.Stderr
}

// New creates a configured application logger.
// It writes to Stderr (to keep Stdout free for CLI output and MCP stdio).
// It standardizes common keys (e.g., "error" -> "err").
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	replace := func(groups []string, a slog.Attr) slog.Attr {
		// Standardize 'error' key to 'err'
		if a.Key == "error" {
			a.Key = "err"
		}
		return a
	}

	if strings.EqualFold(opts.Format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       opts.Level,
			ReplaceAttr: replace,
		}))
	}

	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isTerminal(f)
	}
	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:       opts.Level,
		TimeFormat:  time.TimeOnly,
		NoColor:     noColor,
		ReplaceAttr: replace,
	}))
}

// ParseLevel maps a config string to a slog level. Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

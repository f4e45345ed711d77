// Package logging builds the process logger from command line flags.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	LevelFlagName  = "log-level"
	FormatFlagName = "log-format"

	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the handler.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Format is text or json.
	Format string
}

// RegisterFlags adds the logging flags to flags. They are meant to be
// registered as persistent flags on the root command.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(LevelFlagName, "warn", "log level: debug, info, warn or error")
	flags.String(FormatFlagName, FormatText, "log format: text or json")
}

// FromCommand builds a logger writing to the command's stderr from the
// values of the logging flags.
func FromCommand(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := cmd.Flags().GetString(LevelFlagName)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", LevelFlagName, err)
	}
	format, err := cmd.Flags().GetString(FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", FormatFlagName, err)
	}
	return New(cmd.ErrOrStderr(), Options{Level: level, Format: format})
}

// New creates a logger writing to w. Records carry no timestamp.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}

	switch strings.ToLower(opts.Format) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", opts.Format)
	}
}

// ParseLevel converts a level name to a slog.Level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", s)
	}
}

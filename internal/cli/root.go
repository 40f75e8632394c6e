// Package cli implements the emagram command: offline baseline generation,
// sounding parsing, and baseline validation.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "emagram",
		Short:        "Emagram reference curves and sounding tools",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "stderr log level: debug, info, warn, error")

	logger := func(c *cobra.Command) *slog.Logger {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
			level = slog.LevelWarn
		}
		return slog.New(slog.NewTextHandler(c.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}

	cmd.AddCommand(baselineCmd(logger), parseCmd(), validateCmd())
	return cmd
}

// createFile opens an output file; tests replace it.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writeJSON encodes v to path, or to w when path is empty or "-". A failure
// to close the file is returned like a failed write.
func writeJSON(w io.Writer, path string, v any, indent bool) (err error) {
	if path != "" && path != "-" {
		f, cerr := createFile(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", path, cerr)
			}
		}()
		w = f
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write %s: %w", displayPath(path), err)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	var (
		header domain.SoundingHeader
		output string
	)

	c := &cobra.Command{
		Use:   "parse [flags] FILE",
		Short: "Parse a TEXT:LIST sounding table into JSON (FILE \"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			envelope, err := json.Marshal(domain.RawSounding{SoundingHeader: header, Body: string(body)})
			if err != nil {
				return err
			}
			s, err := domain.ParseRawSounding(domain.RawEvent{Value: envelope})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), output, domain.EnrichSounding(s), true)
		},
	}

	c.Flags().StringVar((*string)(&header.Station), "station", "", "station identifier (required)")
	c.Flags().IntVar(&header.Year, "year", 0, "observation year (required)")
	c.Flags().IntVar(&header.Month, "month", 0, "observation month (required)")
	c.Flags().IntVar(&header.Day, "day", 0, "observation day (required)")
	c.Flags().IntVar(&header.Hour, "hour", 0, "observation hour, UTC")
	c.Flags().StringVarP(&output, "output", "o", "", "write the sounding to this file instead of stdout")
	for _, name := range []string{"station", "year", "month", "day"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sounding: %w", err)
	}
	return data, nil
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/emagram"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a baseline file for shape and reference-point consistency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var keys map[string]json.RawMessage
			if err := json.Unmarshal(data, &keys); err != nil {
				return fmt.Errorf("decode baseline: %w", err)
			}
			for _, f := range domain.Families {
				if _, ok := keys[string(f)]; !ok {
					return fmt.Errorf("baseline lacks the %q family", f)
				}
			}

			var b domain.Baseline
			if err := json.Unmarshal(data, &b); err != nil {
				return fmt.Errorf("decode baseline: %w", err)
			}
			if err := emagram.Validate(b, emagram.DefaultSweep(), emagram.StandardGrid()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

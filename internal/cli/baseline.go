package cli

import (
	"log/slog"

	"github.com/couchcryptid/emagram-etl/internal/emagram"
	"github.com/spf13/cobra"
)

func baselineCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		output   string
		workers  int
		substeps int
	)

	c := &cobra.Command{
		Use:   "baseline",
		Short: "Compute the dry, moist, and mixing-ratio reference curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)
			engines, err := emagram.NewEngines(emagram.StandardGrid(), substeps, log)
			if err != nil {
				return err
			}
			b, err := emagram.NewAssembler(engines, workers, log, nil).Assemble(cmd.Context(), emagram.DefaultSweep())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), output, b, false)
		},
	}

	c.Flags().StringVarP(&output, "output", "o", "", "write the baseline to this file instead of stdout")
	c.Flags().IntVar(&workers, "workers", 4, "concurrent curve computations")
	c.Flags().IntVar(&substeps, "substeps", emagram.DefaultMoistSubsteps, "RK4 steps per grid interval for moist adiabats")
	return c
}

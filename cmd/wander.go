// File: cmd/wander.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/driftline/internal/observability"
)

// newWanderCmd creates and configures the `wander` command.
func newWanderCmd() *cobra.Command {
	var (
		centerFlag string
		seconds    float64
		seed       int64
		output     string
	)

	wanderCmd := &cobra.Command{
		Use:   "wander",
		Short: "Generates an idle drift path around a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			center, err := parseCoordinate(centerFlag)
			if err != nil {
				return fmt.Errorf("parsing --center: %w", err)
			}

			gen, err := buildGenerator(cmd, cfg.Trajectory, logger, seed)
			if err != nil {
				return err
			}

			path, err := gen.Wander(center, seconds)
			if err != nil {
				return fmt.Errorf("generating wander path: %w", err)
			}
			return writeJSON(cmd, output, moveDocument{Points: path})
		},
	}

	wanderCmd.Flags().StringVar(&centerFlag, "center", "", "center coordinate as X,Y")
	wanderCmd.Flags().Float64Var(&seconds, "seconds", 2.0, "how long the pointer should drift")
	wanderCmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible output")
	wanderCmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON document to this file instead of stdout")

	_ = wanderCmd.MarkFlagRequired("center")
	return wanderCmd
}

// File: cmd/generate.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/driftline/api/schemas"
	"github.com/xkilldash9x/driftline/internal/observability"
)

// moveDocument is the JSON shape emitted for one generated trajectory.
type moveDocument struct {
	Points schemas.Trajectory     `json:"points"`
	Events []schemas.PointerEvent `json:"events,omitempty"`
}

// newGenerateCmd creates and configures the `generate` command.
func newGenerateCmd() *cobra.Command {
	var (
		startFlag string
		endFlag   string
		duration  float64
		count     int
		seed      int64
		events    bool
		output    string
	)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates humanlike move trajectories and emits them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			start, err := parseCoordinate(startFlag)
			if err != nil {
				return fmt.Errorf("parsing --start: %w", err)
			}
			end, err := parseCoordinate(endFlag)
			if err != nil {
				return fmt.Errorf("parsing --end: %w", err)
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			gen, err := buildGenerator(cmd, cfg.Trajectory, logger, seed)
			if err != nil {
				return err
			}

			docs := make([]moveDocument, 0, count)
			for i := 0; i < count; i++ {
				var path schemas.Trajectory
				if duration > 0 {
					path, err = gen.GenerateWithDuration(start, end, duration)
				} else {
					path, err = gen.Generate(start, end)
				}
				if err != nil {
					return fmt.Errorf("generating trajectory: %w", err)
				}

				doc := moveDocument{Points: path}
				if events {
					doc.Events = path.Events()
				}
				docs = append(docs, doc)
			}

			if count == 1 {
				return writeJSON(cmd, output, docs[0])
			}
			return writeJSON(cmd, output, docs)
		},
	}

	generateCmd.Flags().StringVar(&startFlag, "start", "", "start coordinate as X,Y")
	generateCmd.Flags().StringVar(&endFlag, "end", "", "end coordinate as X,Y")
	generateCmd.Flags().Float64Var(&duration, "duration", 0, "total movement time in seconds (0 plans one automatically)")
	generateCmd.Flags().IntVar(&count, "count", 1, "number of trajectories to generate")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible output")
	generateCmd.Flags().BoolVar(&events, "events", false, "include replayable pointer events alongside the points")
	generateCmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON document to this file instead of stdout")

	_ = generateCmd.MarkFlagRequired("start")
	_ = generateCmd.MarkFlagRequired("end")
	return generateCmd
}

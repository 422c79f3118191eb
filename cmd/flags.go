// File: cmd/flags.go
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/internal/trajectory"
)

// parseCoordinate turns an "X,Y" flag value into a vector.
func parseCoordinate(raw string) (trajectory.Vector2D, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return trajectory.Vector2D{}, fmt.Errorf("coordinate %q must be in the form X,Y", raw)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return trajectory.Vector2D{}, fmt.Errorf("coordinate %q has a bad X value: %w", raw, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return trajectory.Vector2D{}, fmt.Errorf("coordinate %q has a bad Y value: %w", raw, err)
	}
	return trajectory.Vector2D{X: x, Y: y}, nil
}

// buildGenerator constructs the trajectory generator for a CLI invocation,
// seeded only when the caller asked for reproducible output.
func buildGenerator(cmd *cobra.Command, cfg trajectory.Config, logger *zap.Logger, seed int64) (*trajectory.Generator, error) {
	if cmd.Flags().Changed("seed") {
		return trajectory.NewSeeded(cfg, logger, seed, time.Now())
	}
	return trajectory.New(cfg, logger)
}

// writeJSON renders the payload to stdout or, when a path is given, to a file
// under the expanded path.
func writeJSON(cmd *cobra.Command, path string, payload any) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	if path == "" {
		cmd.Println(string(body))
		return nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding output path: %w", err)
	}
	if err := os.WriteFile(expanded, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	cmd.Printf("Wrote %s\n", expanded)
	return nil
}

// File: cmd/enqueue.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/api/schemas"
	"github.com/xkilldash9x/driftline/internal/config"
	"github.com/xkilldash9x/driftline/internal/observability"
	"github.com/xkilldash9x/driftline/internal/queue"
	"github.com/xkilldash9x/driftline/internal/solver"
)

// newEnqueueCmd creates and configures the `enqueue` command.
func newEnqueueCmd() *cobra.Command {
	var (
		kind      string
		taskID    string
		startFlag string
		endFlag   string
		imagePath string
		duration  float64
		offset    float64
		seconds   float64
	)

	enqueueCmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Publishes a trajectory task to the task stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()
			ctx := cmd.Context()

			start, err := parseCoordinate(startFlag)
			if err != nil {
				return fmt.Errorf("parsing --start: %w", err)
			}

			task := schemas.TrajectoryTask{
				TaskID: taskID,
				Kind:   schemas.TaskKind(strings.ToUpper(kind)),
				Start:  schemas.Coordinate{X: start.X, Y: start.Y},
			}
			if task.TaskID == "" {
				task.TaskID = uuid.New().String()
			}

			switch task.Kind {
			case schemas.TaskMove:
				end, err := parseCoordinate(endFlag)
				if err != nil {
					return fmt.Errorf("parsing --end: %w", err)
				}
				task.End = schemas.Coordinate{X: end.X, Y: end.Y}
				task.Duration = duration

			case schemas.TaskWander:
				task.Seconds = seconds

			case schemas.TaskDrag:
				if imagePath != "" {
					offset, err = solveOffset(ctx, cfg, logger, imagePath)
					if err != nil {
						return fmt.Errorf("solving captcha image: %w", err)
					}
					logger.Info("solver answered", zap.Float64("offset_px", offset))
				}
				if offset <= 0 {
					return fmt.Errorf("drag tasks need --offset or --image")
				}
				task.OffsetPx = offset

			default:
				return fmt.Errorf("unknown task kind %q (expected MOVE, WANDER, or DRAG)", kind)
			}

			q, err := queue.New(ctx, cfg.Queue, logger)
			if err != nil {
				return err
			}
			defer q.Close()

			id, err := q.PublishTask(ctx, task)
			if err != nil {
				return fmt.Errorf("publishing task: %w", err)
			}
			cmd.Printf("Enqueued %s task %s as message %s\n", task.Kind, task.TaskID, id)
			return nil
		},
	}

	enqueueCmd.Flags().StringVar(&kind, "kind", "MOVE", "task kind: MOVE, WANDER, or DRAG")
	enqueueCmd.Flags().StringVar(&taskID, "task-id", "", "task identifier (defaults to a random UUID)")
	enqueueCmd.Flags().StringVar(&startFlag, "start", "", "start coordinate as X,Y (drag handle or wander center)")
	enqueueCmd.Flags().StringVar(&endFlag, "end", "", "end coordinate as X,Y (MOVE only)")
	enqueueCmd.Flags().Float64Var(&duration, "duration", 0, "movement time in seconds (MOVE only, 0 plans one automatically)")
	enqueueCmd.Flags().Float64Var(&offset, "offset", 0, "raw slider offset in pixels (DRAG only)")
	enqueueCmd.Flags().StringVar(&imagePath, "image", "", "captcha image to solve for the offset (DRAG only)")
	enqueueCmd.Flags().Float64Var(&seconds, "seconds", 2.0, "drift time in seconds (WANDER only)")

	_ = enqueueCmd.MarkFlagRequired("start")
	return enqueueCmd
}

// solveOffset reads a captcha image and asks the configured solver service
// for the slider offset.
func solveOffset(ctx context.Context, cfg *config.Config, logger *zap.Logger, imagePath string) (float64, error) {
	if !cfg.Solver.Enabled {
		return 0, fmt.Errorf("the solver is disabled; enable it in config or pass --offset")
	}

	expanded, err := homedir.Expand(imagePath)
	if err != nil {
		return 0, fmt.Errorf("expanding image path: %w", err)
	}
	img, err := os.ReadFile(expanded)
	if err != nil {
		return 0, fmt.Errorf("reading captcha image: %w", err)
	}

	client, err := solver.NewClient(cfg.Solver, logger)
	if err != nil {
		return 0, err
	}
	return client.SolveSlider(ctx, img)
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/driftline/api/schemas"
	"github.com/xkilldash9x/driftline/internal/config"
	"github.com/xkilldash9x/driftline/internal/queue"
	"github.com/xkilldash9x/driftline/internal/slider"
	"github.com/xkilldash9x/driftline/internal/trajectory"
	"github.com/xkilldash9x/driftline/pkg/metrics"
)

// claimBackoff is how long a consumer sits out after a failed claim so a
// sick broker does not turn the loop into a busy wait.
const claimBackoff = time.Second

// TaskSource is the slice of the queue a pool consumes from.
type TaskSource interface {
	Claim(ctx context.Context, consumer string) ([]queue.ClaimedTask, error)
	PublishResult(ctx context.Context, result schemas.TrajectoryResult) (string, error)
	Ack(ctx context.Context, ids ...string) error
}

// Runner produces the pointer data for a single task.
type Runner interface {
	Run(task schemas.TrajectoryTask) (schemas.Trajectory, []schemas.PointerEvent, error)
}

// RunnerFactory builds the Runner owned by one consumer goroutine. Runners
// are not shared; the generator behind them is single-goroutine only.
type RunnerFactory func(consumer string) (Runner, error)

// Pool claims trajectory tasks from the queue and fans them out across a
// fixed set of consumer goroutines.
type Pool struct {
	cfg       *config.Config
	source    TaskSource
	logger    *zap.Logger
	metrics   *metrics.Manager
	newRunner RunnerFactory
	clock     func() time.Time
}

// Option is a function that configures a Pool.
type Option func(*Pool)

// WithRunnerFactory replaces the default trajectory runner builder.
// This is primarily used for testing to inject deterministic runners.
func WithRunnerFactory(factory RunnerFactory) Option {
	return func(p *Pool) {
		p.newRunner = factory
	}
}

// WithClock injects the time source stamped onto results.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) {
		p.clock = now
	}
}

// NewPool initializes a worker pool. The metrics manager may be nil.
func NewPool(cfg *config.Config, source TaskSource, logger *zap.Logger, m *metrics.Manager, opts ...Option) (*Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("worker pool requires a configuration")
	}
	if source == nil {
		return nil, fmt.Errorf("worker pool requires a task source")
	}
	if cfg.Worker.Concurrency < 1 {
		return nil, fmt.Errorf("worker concurrency must be a positive integer, got %d", cfg.Worker.Concurrency)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		cfg:     cfg,
		source:  source,
		logger:  logger.With(zap.String("component", "worker")),
		metrics: m,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.newRunner == nil {
		p.newRunner = defaultRunnerFactory(cfg, p.logger)
	}
	return p, nil
}

// Run blocks until ctx is cancelled or a consumer fails to start. Task
// failures never stop the pool; they are published as error results.
func (p *Pool) Run(ctx context.Context) error {
	p.logger.Info("starting worker pool", zap.Int("concurrency", p.cfg.Worker.Concurrency))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.cfg.Worker.Concurrency; i++ {
		g.Go(func() error {
			return p.consume(ctx)
		})
	}
	return g.Wait()
}

// consume is one consumer goroutine's claim-process-ack loop.
func (p *Pool) consume(ctx context.Context) error {
	consumer := fmt.Sprintf("worker-%s", uuid.NewString())
	logger := p.logger.With(zap.String("consumer", consumer))

	runner, err := p.newRunner(consumer)
	if err != nil {
		return fmt.Errorf("building runner for %s: %w", consumer, err)
	}

	p.metrics.AddConsumers(1)
	defer p.metrics.AddConsumers(-1)
	logger.Info("consumer started")

	for {
		if ctx.Err() != nil {
			logger.Info("consumer stopping")
			return nil
		}

		claimed, err := p.source.Claim(ctx, consumer)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info("consumer stopping")
				return nil
			}
			p.metrics.RecordClaimError()
			logger.Warn("claim failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(claimBackoff):
			}
			continue
		}

		for _, task := range claimed {
			p.handle(ctx, consumer, logger, runner, task)
		}
	}
}

// handle runs one claimed task end to end. The task is acked only after its
// result is on the result stream; a failed publish leaves it pending so
// another consumer can pick it back up.
func (p *Pool) handle(ctx context.Context, consumer string, logger *zap.Logger, runner Runner, claimed queue.ClaimedTask) {
	task := claimed.Task
	started := p.clock()

	points, events, err := runner.Run(task)
	elapsed := p.clock().Sub(started).Seconds()

	result := schemas.TrajectoryResult{
		TaskID:      task.TaskID,
		Kind:        task.Kind,
		Worker:      consumer,
		CompletedAt: timeSeconds(p.clock()),
	}

	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
		result.Error = err.Error()
		logger.Warn("task failed",
			zap.String("task_id", task.TaskID),
			zap.String("kind", string(task.Kind)),
			zap.Error(err),
		)
	} else {
		result.Points = points
		result.Events = events
		p.metrics.ObservePathPoints(len(points))
		logger.Debug("task complete",
			zap.String("task_id", task.TaskID),
			zap.String("kind", string(task.Kind)),
			zap.Int("points", len(points)),
			zap.Float64("elapsed_s", elapsed),
		)
	}
	p.metrics.ObserveTask(string(task.Kind), status, elapsed)

	if _, err := p.source.PublishResult(ctx, result); err != nil {
		p.metrics.RecordPublishError()
		logger.Error("publishing result",
			zap.String("task_id", task.TaskID),
			zap.Error(err),
		)
		return
	}
	if err := p.source.Ack(ctx, claimed.ID); err != nil {
		logger.Error("acking task",
			zap.String("task_id", task.TaskID),
			zap.String("message_id", claimed.ID),
			zap.Error(err),
		)
	}
}

// defaultRunnerFactory builds the real trajectory runner, one generator and
// slider planner per consumer.
func defaultRunnerFactory(cfg *config.Config, logger *zap.Logger) RunnerFactory {
	return func(consumer string) (Runner, error) {
		// Consumers spin up together; fold the name in so same-nanosecond
		// construction does not hand two goroutines the same stream.
		h := fnv.New64a()
		h.Write([]byte(consumer))
		seed := time.Now().UnixNano() ^ int64(h.Sum64())

		gen, err := trajectory.New(cfg.Trajectory, logger,
			trajectory.WithRand(rand.New(rand.NewSource(seed))))
		if err != nil {
			return nil, fmt.Errorf("building generator: %w", err)
		}
		planner, err := slider.NewPlanner(gen, cfg.Slider, logger,
			slider.WithRand(rand.New(rand.NewSource(seed+1))))
		if err != nil {
			return nil, fmt.Errorf("building slider planner: %w", err)
		}
		return &trajectoryRunner{gen: gen, planner: planner}, nil
	}
}

// trajectoryRunner dispatches each task kind to the matching engine call.
type trajectoryRunner struct {
	gen     *trajectory.Generator
	planner *slider.Planner
}

func (r *trajectoryRunner) Run(task schemas.TrajectoryTask) (schemas.Trajectory, []schemas.PointerEvent, error) {
	switch task.Kind {
	case schemas.TaskMove:
		start := trajectory.Vector2D{X: task.Start.X, Y: task.Start.Y}
		end := trajectory.Vector2D{X: task.End.X, Y: task.End.Y}
		var (
			path schemas.Trajectory
			err  error
		)
		if task.Duration > 0 {
			path, err = r.gen.GenerateWithDuration(start, end, task.Duration)
		} else {
			path, err = r.gen.Generate(start, end)
		}
		if err != nil {
			return nil, nil, err
		}
		return path, nil, nil

	case schemas.TaskWander:
		center := trajectory.Vector2D{X: task.Start.X, Y: task.Start.Y}
		path, err := r.gen.Wander(center, task.Seconds)
		if err != nil {
			return nil, nil, err
		}
		return path, nil, nil

	case schemas.TaskDrag:
		handle := trajectory.Vector2D{X: task.Start.X, Y: task.Start.Y}
		plan, err := r.planner.PlanDrag(handle, task.OffsetPx)
		if err != nil {
			return nil, nil, err
		}
		return plan.Path, plan.Events, nil

	default:
		return nil, nil, fmt.Errorf("no runner registered for task kind '%s'", task.Kind)
	}
}

func timeSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// File: internal/queue/queue.go
package queue

import (
	"context"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/api/schemas"
	"github.com/xkilldash9x/driftline/internal/config"
)

// payloadField is the single stream field carrying the JSON-encoded payload.
const payloadField = "data"

// streamClient is the slice of the Redis API the queue depends on. Tests
// substitute a fake; production hands in a *redis.Client.
type streamClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// ClaimedTask pairs a decoded task with the stream ID needed to ack it.
type ClaimedTask struct {
	ID   string
	Task schemas.TrajectoryTask
}

// Queue moves trajectory tasks and results over two Redis streams. Tasks
// are consumed through a consumer group so multiple workers can share the
// stream without double-claiming.
type Queue struct {
	rdb    streamClient
	cfg    config.QueueConfig
	logger *zap.Logger
	close  func() error
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg config.QueueConfig, logger *zap.Logger) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	q := newWithClient(client, cfg, logger)
	q.close = client.Close
	return q, nil
}

// newWithClient wires a queue around an existing client without dialing.
func newWithClient(rdb streamClient, cfg config.QueueConfig, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		rdb:    rdb,
		cfg:    cfg,
		logger: logger.Named("queue"),
	}
}

// Close releases the underlying connection, if this queue owns one.
func (q *Queue) Close() error {
	if q.close == nil {
		return nil
	}
	return q.close()
}

// EnsureGroup creates the consumer group on the task stream, creating the
// stream itself if needed. An already existing group is not an error.
func (q *Queue) EnsureGroup(ctx context.Context) error {
	err := q.rdb.XGroupCreateMkStream(ctx, q.cfg.TaskStream, q.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group %q on %q: %w", q.cfg.Group, q.cfg.TaskStream, err)
	}
	return nil
}

// PublishTask appends a task to the task stream and returns its stream ID.
func (q *Queue) PublishTask(ctx context.Context, task schemas.TrajectoryTask) (string, error) {
	return q.publish(ctx, q.cfg.TaskStream, task)
}

// PublishResult appends a result to the result stream and returns its
// stream ID.
func (q *Queue) PublishResult(ctx context.Context, result schemas.TrajectoryResult) (string, error) {
	return q.publish(ctx, q.cfg.ResultStream, result)
}

func (q *Queue) publish(ctx context.Context, stream string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payload for %q: %w", stream, err)
	}

	id, err := q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{payloadField: body},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("appending to %q: %w", stream, err)
	}
	return id, nil
}

// Claim blocks up to the configured interval for new tasks assigned to this
// consumer. An empty claim returns no tasks and no error. Messages whose
// payload cannot be decoded are acked away and logged, not returned.
func (q *Queue) Claim(ctx context.Context, consumer string) ([]ClaimedTask, error) {
	streams, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.cfg.Group,
		Consumer: consumer,
		Streams:  []string{q.cfg.TaskStream, ">"},
		Count:    int64(q.cfg.ClaimCount),
		Block:    q.cfg.ClaimBlock,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading group %q: %w", q.cfg.Group, err)
	}

	var claimed []ClaimedTask
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			task, err := decodeTask(msg)
			if err != nil {
				// A poison message would redeliver forever; drop it.
				q.logger.Error("discarding undecodable task",
					zap.String("id", msg.ID),
					zap.Error(err),
				)
				_ = q.rdb.XAck(ctx, q.cfg.TaskStream, q.cfg.Group, msg.ID).Err()
				continue
			}
			claimed = append(claimed, ClaimedTask{ID: msg.ID, Task: task})
		}
	}
	return claimed, nil
}

// Ack confirms processing of the given task stream IDs.
func (q *Queue) Ack(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := q.rdb.XAck(ctx, q.cfg.TaskStream, q.cfg.Group, ids...).Err(); err != nil {
		return fmt.Errorf("acking %d message(s): %w", len(ids), err)
	}
	return nil
}

func decodeTask(msg redis.XMessage) (schemas.TrajectoryTask, error) {
	var task schemas.TrajectoryTask

	raw, ok := msg.Values[payloadField]
	if !ok {
		return task, fmt.Errorf("message %s has no %q field", msg.ID, payloadField)
	}

	var body []byte
	switch v := raw.(type) {
	case string:
		body = []byte(v)
	case []byte:
		body = v
	default:
		return task, fmt.Errorf("message %s has a %T payload", msg.ID, raw)
	}

	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("decoding message %s: %w", msg.ID, err)
	}
	return task, nil
}

// internal/training/trainer/status.go
package trainer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunStatus is the externally visible state of one run, published on
// every stage transition so the API layer can serve status queries.
type RunStatus struct {
	RunID     string    `json:"runId"`
	Stage     Stage     `json:"stage"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatusStore publishes run status. Publishing is best-effort; a failed
// publish never fails the run.
type StatusStore interface {
	Publish(ctx context.Context, status RunStatus) error
}

const (
	statusKeyPrefix = "training:status:"
	statusKeyLatest = "training:status:latest"
	statusTTL       = 24 * time.Hour
)

// RedisStatusStore keeps run status in Redis keyed by run ID, with a
// latest pointer for the common "how is the current run doing" query.
type RedisStatusStore struct {
	client *redis.Client
}

func NewRedisStatusStore(client *redis.Client) *RedisStatusStore {
	return &RedisStatusStore{client: client}
}

func (s *RedisStatusStore) Publish(ctx context.Context, status RunStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, statusKeyPrefix+status.RunID, data, statusTTL).Err(); err != nil {
		return err
	}
	return s.client.Set(ctx, statusKeyLatest, status.RunID, statusTTL).Err()
}

// Get reads the published status of one run.
func (s *RedisStatusStore) Get(ctx context.Context, runID string) (*RunStatus, error) {
	data, err := s.client.Get(ctx, statusKeyPrefix+runID).Bytes()
	if err != nil {
		return nil, err
	}
	var status RunStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// NopStatusStore discards everything; used when Redis is not configured.
type NopStatusStore struct{}

func (NopStatusStore) Publish(ctx context.Context, status RunStatus) error { return nil }

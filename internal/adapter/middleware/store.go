package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// replayEntry is what the store keeps per key. A pending entry marks a
// request still running; a done entry holds the response to replay.
type replayEntry struct {
	Pending   bool      `json:"pending"`
	Status    int       `json:"status,omitempty"`
	Body      []byte    `json:"body,omitempty"`
	BodyHash  string    `json:"body_hash"`
	Key       string    `json:"key"`
	RequestAt time.Time `json:"request_at"`
	SavedAt   time.Time `json:"saved_at"`
}

func (e replayEntry) replayable() bool { return !e.Pending && e.Status != 0 && len(e.Body) > 0 }

type replayStore struct {
	rdb *redis.Client
	// lock bounds how long a crashed request can hold its key.
	lock time.Duration
	ttl  time.Duration
}

func newReplayStore(rdb *redis.Client, ttl time.Duration) *replayStore {
	return &replayStore{rdb: rdb, lock: provisionalLockTTL, ttl: ttl}
}

// claim stores a pending entry unless the key is already taken.
func (s *replayStore) claim(ctx context.Context, key string, e replayEntry) (bool, error) {
	e.Pending = true
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.lock).Result()
}

func (s *replayStore) load(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

// finish replaces the pending entry with the captured response.
func (s *replayStore) finish(ctx context.Context, key string, e replayEntry) error {
	e.Pending = false
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s *replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

package syncstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
	"github.com/avelinestudio/aveline-backend/pkg/redis"
)

// RedisLocal mirrors a store's snapshot into Redis for anonymous sessions,
// one JSON document per (kind, device).
type RedisLocal[T any] struct {
	client *redis.Client
	kind   enums.StoreKind
	ttl    time.Duration
}

type localEnvelope[T any] struct {
	Items []T `json:"items"`
}

func NewRedisLocal[T any](client *redis.Client, kind enums.StoreKind, ttl time.Duration) *RedisLocal[T] {
	return &RedisLocal[T]{client: client, kind: kind, ttl: ttl}
}

// Load returns the device's snapshot, or an empty list when none was saved.
func (l *RedisLocal[T]) Load(ctx context.Context, deviceID string) ([]T, error) {
	raw, err := l.client.Get(ctx, l.client.SnapshotKey(l.kind.String(), deviceID))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading local snapshot: %w", err)
	}

	var envelope localEnvelope[T]
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("decoding local snapshot: %w", err)
	}
	return envelope.Items, nil
}

// Save overwrites the device's snapshot with the full list.
func (l *RedisLocal[T]) Save(ctx context.Context, deviceID string, items []T) error {
	raw, err := json.Marshal(localEnvelope[T]{Items: items})
	if err != nil {
		return fmt.Errorf("encoding local snapshot: %w", err)
	}
	if err := l.client.Set(ctx, l.client.SnapshotKey(l.kind.String(), deviceID), string(raw), l.ttl); err != nil {
		return fmt.Errorf("saving local snapshot: %w", err)
	}
	return nil
}

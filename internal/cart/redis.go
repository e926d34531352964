package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisSnapshots(client *redis.Client, clientID string) *RedisSnapshots {
	return &RedisSnapshots{
		client:  client,
		key:     snapshotKey(clientID),
		baseTTL: 24 * time.Hour,
	}
}

// RedisSnapshots keeps the cart snapshot in redis under a fixed per-client
// key so the cart survives restarts.
type RedisSnapshots struct {
	client  *redis.Client
	key     string
	baseTTL time.Duration
}

func (r *RedisSnapshots) Load(ctx context.Context) (*Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap Snapshot
	if err2 := json.Unmarshal(data, &snap); err2 != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err2)
	}
	return &snap, nil
}

func (r *RedisSnapshots) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Minute
	ttl := r.baseTTL + jitter
	if errSet := r.client.Set(ctx, r.key, data, ttl).Err(); errSet != nil {
		return fmt.Errorf("redis set failed: %w", errSet)
	}
	return nil
}

func snapshotKey(clientID string) string {
	return fmt.Sprintf("storefront:cart:%s", clientID)
}

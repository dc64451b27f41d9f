package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

const keyPrefix = "session:"

// Redis stores session records as JSON values under "session:<id>", with an
// optional TTL. Selected with REDIS_ADDR.
type Redis struct {
	cli *redis.Client
	ttl time.Duration
}

func NewRedis(addr, password string, ttl time.Duration) *Redis {
	return &Redis{
		cli: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

func (r *Redis) Get(ctx context.Context, sessionID string) (types.SessionRecord, error) {
	data, err := r.cli.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return types.SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return types.SessionRecord{}, fmt.Errorf("redis get: %w", err)
	}
	var rec types.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.SessionRecord{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return rec, nil
}

func (r *Redis) Put(ctx context.Context, sessionID string, rec types.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := r.cli.Set(ctx, keyPrefix+sessionID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]types.SessionRecord, error) {
	var out []types.SessionRecord
	iter := r.cli.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.cli.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get %s: %w", iter.Val(), err)
		}
		var rec types.SessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Ping verifies connectivity at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

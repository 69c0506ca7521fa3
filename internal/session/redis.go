package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session state as JSON under wizard:session:{id}.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, id string) (orders.State, error) {
	b, err := s.rdb.Get(ctx, fmt.Sprintf(redisx.KeySession, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return orders.State{}, ErrSessionNotFound
	}
	if err != nil {
		return orders.State{}, fmt.Errorf("load session: %w", err)
	}
	var st orders.State
	if err := json.Unmarshal(b, &st); err != nil {
		return orders.State{}, fmt.Errorf("decode session: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, st orders.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(redisx.KeySession, id), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(redisx.KeySession, id)).Err()
}

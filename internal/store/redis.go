package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"solar_sizer/internal/model"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "solar:session:"

// RedisConfig holds connection settings for the Redis session store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewRedisClient creates a client from cfg.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Redis stores sessions as JSON values that expire after the TTL. Every
// write refreshes the expiry.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis wraps an existing client. A zero ttl keeps sessions until deleted.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: DefaultKeyPrefix}
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

func (r *Redis) Get(ctx context.Context, id string) (model.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("reading session %s: %w", id, err)
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Session{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return s, nil
}

func (r *Redis) Put(ctx context.Context, s model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing session %s: %w", s.ID, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

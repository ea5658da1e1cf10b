package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/eugenenazirov/layered-configs/internal/properties"
)

// DefaultRedisKey is the hash that holds properties when no key is configured.
const DefaultRedisKey = "layered-configs:properties"

// RedisOptions configures the Redis connection and the hash properties live in.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Timeout  time.Duration
}

// NewRedisClient connects with a dial timeout and verifies the server with a PING.
func NewRedisClient(opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout(opts.Timeout))
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStore keeps properties as fields of a single Redis hash. Values are
// written in their string form and read back through ParseScalar, so bools
// and canonical numbers keep their type.
type RedisStore struct {
	client  redis.Cmdable
	key     string
	timeout time.Duration
}

// NewRedisStore binds a store to the hash named key. Each command is bounded
// by timeout.
func NewRedisStore(client redis.Cmdable, key string, timeout time.Duration) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		client:  client,
		key:     key,
		timeout: opTimeout(timeout),
	}
}

// Key returns the hash name backing the store.
func (s *RedisStore) Key() string {
	return s.key
}

// Get returns the field value for key, or nil when the field is unset.
func (s *RedisStore) Get(key string) (properties.Value, error) {
	ctx, cancel := s.context()
	defer cancel()

	value, err := s.client.HGet(ctx, s.key, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return properties.ParseScalar(value), nil
}

// All returns every field of the hash.
func (s *RedisStore) All() (properties.Values, error) {
	ctx, cancel := s.context()
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	out := make(properties.Values, len(fields))
	for field, value := range fields {
		out[field] = properties.ParseScalar(value)
	}
	return out, nil
}

// Set writes value under key. A nil value deletes the field.
func (s *RedisStore) Set(key string, value properties.Value) error {
	if value != nil && !properties.IsScalar(value) {
		return ErrInvalidValue
	}

	ctx, cancel := s.context()
	defer cancel()

	if value == nil {
		if err := s.client.HDel(ctx, s.key, key).Err(); err != nil {
			return fmt.Errorf("redis hdel %s: %w", key, err)
		}
		return nil
	}
	if err := s.client.HSet(ctx, s.key, key, properties.FormatValue(value)).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func opTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultOpTimeout
	}
	return d
}

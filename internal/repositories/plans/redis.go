package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"automarket_backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps overrides in a hash (<key>:data) with a sorted set
// (<key>:order) recording first-insertion time.
type RedisStore struct {
	client   *redis.Client
	dataKey  string
	orderKey string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{
		client:   client,
		dataKey:  key + ":data",
		orderKey: key + ":order",
	}
}

// NewRedisClient parses url and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, id models.PlanID) (models.PlanOverride, error) {
	raw, err := s.client.HGet(ctx, s.dataKey, string(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.PlanOverride{}, ErrNotFound
		}
		return models.PlanOverride{}, err
	}
	return decodeOverride(raw)
}

func (s *RedisStore) Put(ctx context.Context, id models.PlanID, override models.PlanOverride) error {
	payload, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("encode plan override %s: %w", id, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.dataKey, string(id), payload)
		pipe.ZAddNX(ctx, s.orderKey, redis.Z{
			Score:  float64(time.Now().UnixNano()),
			Member: string(id),
		})
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id models.PlanID) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, s.dataKey, string(id))
		pipe.ZRem(ctx, s.orderKey, string(id))
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed.Val() > 0, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	ids, err := s.client.ZRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Entry{}, nil
	}

	values, err := s.client.HMGet(ctx, s.dataKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(ids))
	for i, id := range ids {
		raw, ok := values[i].(string)
		if !ok {
			// order entry without data: a Delete raced this read
			continue
		}
		o, err := decodeOverride([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode plan override %s: %w", id, err)
		}
		entries = append(entries, Entry{ID: models.PlanID(id), Override: o})
	}
	return entries, nil
}

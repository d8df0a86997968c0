package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/observability"
)

const (
	redisKeyPrefix = "greedytangle:replay:"
	redisIndexKey  = "greedytangle:replays"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL expires replay documents after the given duration. Zero keeps
	// them forever. The index self-heals when expired entries are listed.
	TTL time.Duration
}

// Redis stores replays as JSON values keyed by ID, with a sorted-set index
// scored by creation time for ordered listings.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects and verifies the server is reachable.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to redis")
	}
	return &Redis{client: client, ttl: cfg.TTL}, nil
}

// Save writes the document and its index entry in one pipeline.
func (r *Redis) Save(ctx context.Context, rec *Record) error {
	stamp(rec)

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding replay")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+rec.ID, data, r.ttl)
	pipe.ZAdd(ctx, redisIndexKey, redis.Z{
		Score:  float64(rec.CreatedAt.UnixNano()),
		Member: rec.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "saving replay to redis")
	}

	observability.Store().OnSave(ctx, "redis", rec.ID, len(data))
	return nil
}

// Get retrieves a record by ID.
func (r *Redis) Get(ctx context.Context, id string) (*Record, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		observability.Store().OnLoad(ctx, "redis", id, false)
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.New(errors.ErrCodeReplayNotFound, "replay %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading replay from redis")
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding replay %s", id)
	}
	observability.Store().OnLoad(ctx, "redis", id, true)
	return &rec, nil
}

// List walks the index newest first.
func (r *Redis) List(ctx context.Context, limit int) ([]Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := r.client.ZRevRange(ctx, redisIndexKey, 0, stop).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing replays from redis")
	}

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			if errors.GetCode(err) == errors.ErrCodeReplayNotFound {
				// Index entry outlived its document; heal the index.
				r.client.ZRem(ctx, redisIndexKey, id)
				continue
			}
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// Delete removes the document and its index entry.
func (r *Redis) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, redisKeyPrefix+id)
	pipe.ZRem(ctx, redisIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting replay from redis")
	}
	return nil
}

// Close closes the client connection pool.
func (r *Redis) Close(context.Context) error {
	return r.client.Close()
}

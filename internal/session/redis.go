package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "psicocitas:session:"

// RedisStore keeps sealed sessions in redis with a TTL matching expiry.
type RedisStore struct {
	client *redis.Client
	sealer *Sealer
	now    func() time.Time
}

// NewRedisStore creates a store on client.
func NewRedisStore(client *redis.Client, sealer *Sealer) *RedisStore {
	return &RedisStore{client: client, sealer: sealer, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	key := redisKeyPrefix + id
	sealed, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	return openRecord(s.sealer, id, expiresAt, sealed)
}

func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	sealed, err := sealRecord(s.sealer, rec)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if !rec.ExpiresAt.IsZero() {
		ttl = rec.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return s.Delete(ctx, rec.ID)
		}
	}
	return s.client.Set(ctx, redisKeyPrefix+rec.ID, sealed, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}

// List walks the session keys with SCAN.
func (s *RedisStore) List(ctx context.Context) ([]*Record, error) {
	var out []*Record
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := iter.Val()[len(redisKeyPrefix):]
		rec, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSealBroken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

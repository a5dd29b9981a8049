package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/you/shop-backoffice/internal/domain"
)

const keyPrefix = "pending:"

// consumeScript compares the stored code and deletes the key in one atomic
// step on the server, so two racing verifies cannot both read the record
// before either delete lands. Returns the payload on match, "" on mismatch.
var consumeScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "code") == ARGV[1] then
	local payload = redis.call("HGET", KEYS[1], "payload")
	redis.call("DEL", KEYS[1])
	return payload
end
return ""
`)

// RedisStore keeps pending registrations in Redis with a TTL equal to the
// OTP window, so expiry needs no sweeper at all.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, reg domain.PendingRegistration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	key := keyPrefix + reg.Email
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "code", reg.Code, "payload", payload)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store pending registration: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, email, code string) (*domain.PendingRegistration, error) {
	key := keyPrefix + email
	res, err := consumeScript.Run(ctx, s.rdb, []string{key}, code).Text()
	if err != nil {
		return nil, fmt.Errorf("consume pending registration: %w", err)
	}
	if res == "" {
		// mismatch or missing; a missing key means never created, already
		// consumed, or expired via TTL
		exists, err := s.rdb.Exists(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, ErrNoPending
		}
		return nil, ErrCodeMismatch
	}
	var reg domain.PendingRegistration
	if err := json.Unmarshal([]byte(res), &reg); err != nil {
		return nil, fmt.Errorf("decode pending registration: %w", err)
	}
	return &reg, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, keyPrefix+email).Err()
}

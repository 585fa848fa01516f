// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// consumeScript deletes KEYS[1] only while it still holds ARGV[1], so two
// requests redeeming the same code cannot both succeed.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCodeStore implements [CodeStore] using Redis.
type RedisCodeStore struct {
	client *redis.Client
}

// NewCodeStore creates a new Redis-backed [CodeStore].
func NewCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(userID string) string {
	return constants.RedisPrefixConfirmationCode + userID
}

// Save implements [CodeStore].
func (store *RedisCodeStore) Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error {
	if err := store.client.Set(ctx, codeKey(userID), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}
	return nil
}

/*
Get returns the outstanding code hash for a user.

Returns:
  - string: bcrypt hash of the code
  - error: apperr.NotFound when absent or expired, or connectivity errors
*/
func (store *RedisCodeStore) Get(ctx context.Context, userID string) (string, error) {
	codeHash, err := store.client.Get(ctx, codeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}
	return codeHash, nil
}

// Consume implements [CodeStore] with an atomic compare-and-delete.
func (store *RedisCodeStore) Consume(ctx context.Context, userID, codeHash string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, store.client, []string{codeKey(userID)}, codeHash).Int()
	if err != nil {
		return false, fmt.Errorf("redis_confirmation_code_consume_failed: %w", err)
	}
	return deleted == 1, nil
}

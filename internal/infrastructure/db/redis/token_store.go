package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/expenspend/expenspend-api/internal/core/domain"
	"github.com/expenspend/expenspend-api/internal/core/ports"
)

// consumeTokenLua compares the stored digest against the presented one and
// deletes the key only on a match, in a single server-side step. Two
// concurrent consumes of the same token cannot both succeed, and a
// mismatched presentation leaves the stored token intact so the caller may
// retry another encoding of it.
// KEYS[1] = token key, ARGV[1] = presented digest.
// Returns 1 on match-and-delete, 0 otherwise.
var consumeTokenLua = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if not stored then
  return 0
end
if stored ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
return 1
`)

// SecurityTokenStore keeps single-use confirmation/reset tokens in Redis.
// Only a SHA-256 digest of the token is stored; the TTL bounds the token's
// lifetime and a successful Consume deletes the key, so each token verifies
// at most once.
// Key format: sectoken:<purpose>:<user_id>
type SecurityTokenStore struct {
	client *redis.Client
}

func NewSecurityTokenStore(client *redis.Client) *SecurityTokenStore {
	return &SecurityTokenStore{client: client}
}

func (s *SecurityTokenStore) Save(ctx context.Context, purpose ports.TokenPurpose, userID, token string, ttl time.Duration) error {
	digest := hashToken(token)
	if err := s.client.Set(ctx, s.key(purpose, userID), digest, ttl).Err(); err != nil {
		return fmt.Errorf("save security token: %w", err)
	}
	return nil
}

// Consume verifies the presented token against the stored digest and
// invalidates it in one atomic server-side operation. Missing, expired, or
// mismatched tokens all report the same domain.ErrInvalidToken so callers
// leak nothing about which case occurred.
func (s *SecurityTokenStore) Consume(ctx context.Context, purpose ports.TokenPurpose, userID, token string) error {
	key := s.key(purpose, userID)

	n, err := consumeTokenLua.Run(ctx, s.client, []string{key}, hashToken(token)).Int()
	if err != nil {
		return fmt.Errorf("consume security token: %w", err)
	}
	if n != 1 {
		return domain.ErrInvalidToken
	}
	return nil
}

func (s *SecurityTokenStore) key(purpose ports.TokenPurpose, userID string) string {
	return fmt.Sprintf("sectoken:%s:%s", purpose, userID)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	scriptConflict int64 = 0
	scriptOK       int64 = 1
	scriptMissing  int64 = 2
)

// KEYS: account hash, token list, one index key per token. ARGV: email,
// user id, password hash, created at, tokens in KEYS order.
const createAccountScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
for i = 3, #KEYS do
  if redis.call("EXISTS", KEYS[i]) == 1 then
    return 0
  end
end
redis.call("HSET", KEYS[1], "user_id", ARGV[2], "password_hash", ARGV[3], "created_at", ARGV[4])
for i = 3, #KEYS do
  redis.call("RPUSH", KEYS[2], ARGV[i + 2])
  redis.call("SET", KEYS[i], ARGV[1])
end
return 1
`

var createAccountLua = redis.NewScript(createAccountScript)

// KEYS: account hash, token list, token index key. ARGV: email, token.
const appendTokenScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 2
end
if redis.call("SETNX", KEYS[3], ARGV[1]) == 0 then
  return 0
end
redis.call("RPUSH", KEYS[2], ARGV[2])
return 1
`

var appendTokenLua = redis.NewScript(appendTokenScript)

// RedisRepository keeps each account in a hash, its refresh tokens in a list
// and one index key per token pointing back to the email. Writes run as Lua
// scripts so the list and the index never diverge. The scripts touch keys
// of several accounts, so the client must be a single node, not a cluster.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) accountKey(email string) string {
	return r.prefix + "account:" + email
}

func (r *RedisRepository) tokensKey(email string) string {
	return r.prefix + "account:" + email + ":refresh"
}

func (r *RedisRepository) tokenKey(token string) string {
	return r.prefix + "refresh:" + token
}

func (r *RedisRepository) Create(ctx context.Context, account *models.Account) error {
	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	keys := []string{r.accountKey(account.Email), r.tokensKey(account.Email)}
	args := []any{
		account.Email,
		account.UserID,
		account.PasswordHash,
		createdAt.Format(time.RFC3339Nano),
	}
	for _, t := range account.RefreshTokens {
		keys = append(keys, r.tokenKey(t))
		args = append(args, t)
	}

	res, err := createAccountLua.Run(ctx, r.client, keys, args...).Int64()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if res == scriptConflict {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, email string) (*models.Account, error) {
	var (
		fields *redis.MapStringStringCmd
		tokens *redis.StringSliceCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, r.accountKey(email))
		tokens = pipe.LRange(ctx, r.tokensKey(email), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	h := fields.Val()
	if len(h) == 0 {
		return nil, common.ErrorNotFound
	}

	a := &models.Account{
		Email:         email,
		UserID:        h["user_id"],
		PasswordHash:  h["password_hash"],
		RefreshTokens: tokens.Val(),
	}
	if ts := h["created_at"]; ts != "" {
		if a.CreatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("redis error: bad created_at: %w", err)
		}
	}
	return a, nil
}

func (r *RedisRepository) AppendRefreshToken(ctx context.Context, email, token string) error {
	res, err := appendTokenLua.Run(ctx, r.client,
		[]string{r.accountKey(email), r.tokensKey(email), r.tokenKey(token)},
		email, token).Int64()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	switch res {
	case scriptOK:
		return nil
	case scriptMissing:
		return common.ErrorNotFound
	default:
		return common.ErrorAlreadyExists
	}
}

func (r *RedisRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Account, error) {
	email, err := r.client.Get(ctx, r.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return r.Get(ctx, email)
}

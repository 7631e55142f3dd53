package accounts

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(email string, tokens ...string) *models.Account {
	return &models.Account{
		Email:         email,
		PasswordHash:  "$argon2id$hash-of-" + email,
		UserID:        "uid-" + email,
		RefreshTokens: tokens,
	}
}

// runRepositoryContract exercises behaviour every backend must share.
// writers is the number of goroutines appending to one account at once.
func runRepositoryContract(t *testing.T, writers int, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, newAccount("a@example.com", "rt-1")))

		got, err := r.Get(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", got.Email)
		assert.Equal(t, "uid-a@example.com", got.UserID)
		assert.Equal(t, "$argon2id$hash-of-a@example.com", got.PasswordHash)
		assert.Equal(t, []string{"rt-1"}, got.RefreshTokens)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("get unknown", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Get(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("duplicate email keeps first account", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, newAccount("a@example.com", "rt-1")))

		second := newAccount("a@example.com", "rt-2")
		second.PasswordHash = "other"
		second.UserID = "other"
		assert.ErrorIs(t, r.Create(ctx, second), common.ErrorAlreadyExists)

		got, err := r.Get(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "uid-a@example.com", got.UserID)
		assert.Equal(t, "$argon2id$hash-of-a@example.com", got.PasswordHash)
		assert.Equal(t, []string{"rt-1"}, got.RefreshTokens)

		_, err = r.FindByRefreshToken(ctx, "rt-2")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("append keeps insertion order", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, newAccount("a@example.com", "rt-1")))
		require.NoError(t, r.AppendRefreshToken(ctx, "a@example.com", "rt-2"))
		require.NoError(t, r.AppendRefreshToken(ctx, "a@example.com", "rt-3"))

		got, err := r.Get(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"rt-1", "rt-2", "rt-3"}, got.RefreshTokens)
	})

	t.Run("append to unknown account", func(t *testing.T) {
		r := newRepo(t)
		err := r.AppendRefreshToken(ctx, "ghost@example.com", "rt-x")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("token belongs to one account", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, newAccount("a@example.com", "rt-1")))
		require.NoError(t, r.Create(ctx, newAccount("b@example.com", "rt-2")))

		assert.ErrorIs(t, r.AppendRefreshToken(ctx, "b@example.com", "rt-1"), common.ErrorAlreadyExists)

		owner, err := r.FindByRefreshToken(ctx, "rt-1")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", owner.Email)
	})

	t.Run("find by refresh token", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, newAccount("a@example.com", "rt-1")))
		require.NoError(t, r.AppendRefreshToken(ctx, "a@example.com", "rt-2"))

		for _, tok := range []string{"rt-1", "rt-2"} {
			got, err := r.FindByRefreshToken(ctx, tok)
			require.NoError(t, err, tok)
			assert.Equal(t, "a@example.com", got.Email)
			assert.Equal(t, "uid-a@example.com", got.UserID)
		}

		_, err := r.FindByRefreshToken(ctx, "never-issued")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("returned account is a copy", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, newAccount("a@example.com", "rt-1")))

		got, err := r.Get(ctx, "a@example.com")
		require.NoError(t, err)
		got.RefreshTokens[0] = "mutated"

		again, err := r.Get(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"rt-1"}, again.RefreshTokens)
	})

	t.Run("concurrent appends are all retained", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, newAccount("a@example.com", "rt-0")))

		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 1; i <= writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- r.AppendRefreshToken(ctx, "a@example.com", fmt.Sprintf("rt-%d", i))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := r.Get(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Len(t, got.RefreshTokens, writers+1)
		assert.Equal(t, "rt-0", got.RefreshTokens[0])
		for i := 1; i <= writers; i++ {
			assert.Contains(t, got.RefreshTokens, fmt.Sprintf("rt-%d", i))
		}
	})
}

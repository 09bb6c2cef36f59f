package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/honeynil/rotrade/internal/infrastructure/redis"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) (*TokenService, *miniredis.Miniredis, *time.Time) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	now := time.Now()
	svc := NewTokenService("test-secret", time.Hour, redis.Wrap(client))
	svc.now = func() time.Time { return now }
	return svc, mr, &now
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()

	t.Run("IssueAndValidate", func(t *testing.T) {
		svc, mr, _ := newTestTokenService(t)

		token, err := svc.Issue(ctx, 7)
		require.NoError(t, err)
		stored, err := mr.Get("user:7:token")
		require.NoError(t, err)
		assert.Equal(t, token, stored)
		assert.Equal(t, time.Hour, mr.TTL("user:7:token"))

		userID, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), userID)
	})

	t.Run("NewLoginRevokesPrevious", func(t *testing.T) {
		svc, _, now := newTestTokenService(t)

		first, err := svc.Issue(ctx, 7)
		require.NoError(t, err)
		*now = now.Add(time.Second)
		second, err := svc.Issue(ctx, 7)
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		_, err = svc.Validate(ctx, first)
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
		_, err = svc.Validate(ctx, second)
		assert.NoError(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		svc, _, now := newTestTokenService(t)

		token, err := svc.Issue(ctx, 7)
		require.NoError(t, err)
		*now = now.Add(2 * time.Hour)

		_, err = svc.Validate(ctx, token)
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		svc, mr, _ := newTestTokenService(t)
		other := NewTokenService("other-secret", time.Hour, svc.store)
		other.now = svc.now

		token, err := other.Issue(ctx, 7)
		require.NoError(t, err)
		require.True(t, mr.Exists("user:7:token"))

		_, err = svc.Validate(ctx, token)
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("Garbage", func(t *testing.T) {
		svc, _, _ := newTestTokenService(t)

		_, err := svc.Validate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("StoreUnavailable", func(t *testing.T) {
		svc, mr, _ := newTestTokenService(t)
		token, err := svc.Issue(ctx, 7)
		require.NoError(t, err)
		mr.Close()

		_, err = svc.Validate(ctx, token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("EmptySecret", func(t *testing.T) {
		svc, _, _ := newTestTokenService(t)
		svc.secret = nil

		_, err := svc.Issue(ctx, 7)
		assert.Error(t, err)
	})
}

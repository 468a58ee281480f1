package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionRepo(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, SessionRepository) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return s, NewSessionRepository(rdb, ttl)
}

func TestSessionRepository_CreateGetDelete(t *testing.T) {
	_, repo := setupSessionRepo(t, time.Hour)
	ctx := context.Background()

	sess, err := repo.Create(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, sess.ID, 64)

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.AccountID)
	assert.Equal(t, sess.ID, got.ID)

	require.NoError(t, repo.Delete(ctx, sess.ID))
	got, err = repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_Expires(t *testing.T) {
	mr, repo := setupSessionRepo(t, time.Minute)
	ctx := context.Background()

	sess, err := repo.Create(ctx, 1)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_UnknownAndEmpty(t *testing.T) {
	_, repo := setupSessionRepo(t, time.Minute)

	got, err := repo.Get(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Get(context.Background(), "deadbeef")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

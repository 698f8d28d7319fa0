package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistService_RevokeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.blacklistSvc.Revoke(ctx, "tok"))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.blacklistSvc.Revoke(ctx, "tok"))

	assert.Equal(t, 1, f.blacklist.Len())
	revoked, err := f.blacklistSvc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestBlacklistService_CacheIsOnlyAShortcut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// revoked in the database but not cached: lookup falls through and warms the cache
	require.NoError(t, f.blacklist.Add(ctx, "tok", testStart))
	assert.False(t, f.cache.Has("tok"))

	revoked, err := f.blacklistSvc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, f.cache.Has("tok"))

	revoked, err = f.blacklistSvc.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.False(t, f.cache.Has("other"))
}

func TestBlacklistService_CacheFailureFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cache.Err = errors.New("redis down")

	require.NoError(t, f.blacklistSvc.Revoke(ctx, "tok"))
	revoked, err := f.blacklistSvc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestBlacklistService_RevokeFailsWhenDatabaseFails(t *testing.T) {
	f := newFixture(t)
	f.blacklist.Err = errors.New("db down")

	err := f.blacklistSvc.Revoke(context.Background(), "tok")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.False(t, f.cache.Has("tok"))
}

func TestBlacklistService_RevokeAllForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.tokenSvc.Issue(ctx, "alice@example.com", 1)
	require.NoError(t, err)
	b, err := f.tokenSvc.Issue(ctx, "alice@example.com", 1)
	require.NoError(t, err)
	bob, err := f.tokenSvc.Issue(ctx, "bob@example.com", 2)
	require.NoError(t, err)

	n, err := f.blacklistSvc.RevokeAllForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, tok := range []string{a, b} {
		_, err := f.tokenSvc.Verify(ctx, tok)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	}
	_, err = f.tokenSvc.Verify(ctx, bob)
	assert.NoError(t, err)
}

func TestBlacklistService_Prune(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old, err := f.tokenSvc.Issue(ctx, "alice@example.com", 1)
	require.NoError(t, err)
	require.NoError(t, f.blacklistSvc.Revoke(ctx, old))

	f.clock.Advance(testTTL / 2)
	fresh, err := f.tokenSvc.Issue(ctx, "alice@example.com", 1)
	require.NoError(t, err)
	require.NoError(t, f.blacklistSvc.Revoke(ctx, fresh))

	f.clock.Advance(testTTL / 2)
	pruned, err := f.blacklistSvc.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)
	assert.Equal(t, 1, f.blacklist.Len())
	assert.Len(t, f.tokens.All(), 1)

	f.cache.On = false
	_, err = f.tokenSvc.Verify(ctx, old)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	_, err = f.tokenSvc.Verify(ctx, fresh)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) Prune(context.Context) (int64, error) {
	p.calls.Add(1)
	return 0, nil
}

func TestJanitor_RunsUntilCancelled(t *testing.T) {
	p := &countingPruner{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewJanitor(p, 5*time.Millisecond).Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitor_DisabledReturnsImmediately(t *testing.T) {
	p := &countingPruner{}
	NewJanitor(p, 0).Start(context.Background())
	assert.Zero(t, p.calls.Load())
}

package service

import (
	"context"
	"time"

	apperrors "github.com/photoshare/api/internal/errors"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
)

// BlacklistService owns token revocation. The database is the source of truth;
// the cache, when enabled, only short-circuits positive answers.
type BlacklistService struct {
	store  BlacklistStore
	tokens TokenStore
	cache  RevocationCache
	ttl    time.Duration
	now    Clock
}

// NewBlacklistService takes the token TTL so cached entries expire with the tokens they describe.
// cache may be nil.
func NewBlacklistService(store BlacklistStore, tokens TokenStore, cache RevocationCache, ttl time.Duration, now Clock) *BlacklistService {
	if now == nil {
		now = time.Now
	}
	return &BlacklistService{store: store, tokens: tokens, cache: cache, ttl: ttl, now: now}
}

// Revoke is idempotent.
func (s *BlacklistService) Revoke(ctx context.Context, token string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "BlacklistService.Revoke")

	if err := s.store.Add(ctx, token, s.now()); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.remember(ctx, token)
	return nil
}

func (s *BlacklistService) IsRevoked(ctx context.Context, token string) (bool, error) {
	if s.cacheEnabled() {
		hit, err := s.cache.IsRevoked(ctx, token)
		if err == nil && hit {
			return true, nil
		}
		if err != nil {
			logger.DebugWithContext(ctx, "Blacklist cache lookup failed, using database").
				Err(err).
				Log()
		}
	}

	revoked, err := s.store.Exists(ctx, token)
	if err != nil {
		return false, err
	}
	if revoked {
		s.remember(ctx, token)
	}
	return revoked, nil
}

// RevokeAllForUser blacklists every unexpired token issued to the user.
func (s *BlacklistService) RevokeAllForUser(ctx context.Context, userID uint) (int, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "BlacklistService.RevokeAllForUser")

	active, err := s.tokens.ListActiveByUser(ctx, userID, s.now())
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	for _, t := range active {
		if err := s.Revoke(ctx, t.Token); err != nil {
			return 0, err
		}
	}

	logger.InfoWithContext(ctx, "Revoked user tokens").
		Uint("target_user_id", userID).
		Int("count", len(active)).
		Log()
	return len(active), nil
}

// Prune drops blacklist entries of tokens that have expired anyway, then the expired
// token records themselves. Such tokens keep failing verification as expired.
func (s *BlacklistService) Prune(ctx context.Context) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "BlacklistService.Prune")
	now := s.now()

	pruned, err := s.store.DeleteForExpiredTokens(ctx, now)
	if err != nil {
		return 0, err
	}
	expired, err := s.tokens.DeleteExpired(ctx, now)
	if err != nil {
		return pruned, err
	}

	if pruned > 0 || expired > 0 {
		logger.InfoWithContext(ctx, "Pruned expired tokens").
			Int64("blacklist_rows", pruned).
			Int64("token_rows", expired).
			Log()
	}
	return pruned, nil
}

func (s *BlacklistService) cacheEnabled() bool {
	return s.cache != nil && s.cache.Enabled()
}

func (s *BlacklistService) remember(ctx context.Context, token string) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.MarkRevoked(ctx, token, s.ttl); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache revoked token").
			Err(err).
			Log()
	}
}

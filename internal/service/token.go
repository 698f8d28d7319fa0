package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/photoshare/api/config"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
)

// Claims carried by an access token. Subject is the user's email (or username).
type Claims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// RevocationChecker answers whether a token string was revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// TokenService issues and verifies bearer tokens.
//
// Verification order is fixed: signature, then revocation, then expiry. Expired and
// revoked tokens are both rejections; callers must not rely on which one they got.
type TokenService struct {
	secret      []byte
	ttl         time.Duration
	method      jwt.SigningMethod
	store       TokenStore
	revocations RevocationChecker
	now         Clock
}

// NewTokenService expects a validated config (see config.Config.Validate).
func NewTokenService(cfg config.JWTConfig, store TokenStore, revocations RevocationChecker, now Clock) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.SigningAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.SigningAlgorithm)
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret:      []byte(cfg.Secret),
		ttl:         cfg.ExpirationTime,
		method:      method,
		store:       store,
		revocations: revocations,
		now:         now,
	}, nil
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject and records it in the tokens table.
func (s *TokenService) Issue(ctx context.Context, subject string, userID uint) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "TokenService.Issue")

	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, fmt.Errorf("sign token: %w", err))
	}

	record := &model.Token{
		Token:     signed,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.DebugWithContext(ctx, "Access token issued").
		Uint("user_id", userID).
		String("jti", claims.ID).
		Log()
	return signed, nil
}

// Verify returns the claims of a token that is authentic, not revoked and not expired.
func (s *TokenService) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidSignature, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, apperrors.ErrInvalidSignature
	}

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, apperrors.ErrTokenExpired
	}

	return claims, nil
}

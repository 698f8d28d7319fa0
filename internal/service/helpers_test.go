package service

import (
	"context"
	"testing"
	"time"

	"github.com/photoshare/api/config"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/model"
	"github.com/photoshare/api/internal/testutil"
	"github.com/photoshare/api/pkg/events"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testTTL = 30 * time.Minute

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}
func (p *recordingPublisher) Status() string { return "test" }
func (p *recordingPublisher) Close() error   { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	clock     *testutil.Clock
	users     *testutil.UserStore
	tokens    *testutil.TokenStore
	blacklist *testutil.BlacklistStore
	cache     *testutil.RevocationCache
	publisher *recordingPublisher

	hasher       *PasswordHasher
	blacklistSvc *BlacklistService
	tokenSvc     *TokenService
	gate         *AccessGate
	auth         *AuthService
	userSvc      *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:     testutil.NewClock(testStart),
		users:     testutil.NewUserStore(),
		tokens:    testutil.NewTokenStore(),
		cache:     testutil.NewRevocationCache(),
		publisher: &recordingPublisher{},
		hasher:    NewPasswordHasher(bcrypt.MinCost),
	}
	f.blacklist = testutil.NewBlacklistStore(f.tokens)
	f.blacklistSvc = NewBlacklistService(f.blacklist, f.tokens, f.cache, testTTL, f.clock.Now)

	var err error
	f.tokenSvc, err = NewTokenService(config.JWTConfig{
		Secret:           "test-secret",
		ExpirationTime:   testTTL,
		SigningAlgorithm: "HS256",
	}, f.tokens, f.blacklistSvc, f.clock.Now)
	require.NoError(t, err)

	f.gate = NewAccessGate(f.tokenSvc, f.users)
	f.auth = NewAuthService(f.users, f.hasher, f.tokenSvc, f.blacklistSvc, f.publisher, f.clock.Now)
	f.userSvc = NewUserService(f.users, f.hasher, f.blacklistSvc, f.publisher)
	return f
}

// addUser stores an account whose password is "password123".
func (f *fixture) addUser(t *testing.T, email, role string, active bool) *model.User {
	t.Helper()
	hashed, err := f.hasher.Hash("password123")
	require.NoError(t, err)
	return f.users.Put(testutil.NewUser(email, role, active, hashed))
}

func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()
	resp, err := f.auth.Login(context.Background(), email, "password123")
	require.NoError(t, err)
	require.Equal(t, constants.TokenTypeBearer, resp.TokenType)
	return resp.AccessToken
}

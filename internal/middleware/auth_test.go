package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/config"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/model"
	"github.com/photoshare/api/internal/service"
	"github.com/photoshare/api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authEnv struct {
	clock     *testutil.Clock
	users     *testutil.UserStore
	tokens    *service.TokenService
	blacklist *service.BlacklistService
	router    *gin.Engine
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	env := &authEnv{
		clock: testutil.NewClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		users: testutil.NewUserStore(),
	}
	tokenStore := testutil.NewTokenStore()
	env.blacklist = service.NewBlacklistService(testutil.NewBlacklistStore(tokenStore), tokenStore, nil, time.Hour, env.clock.Now)

	var err error
	env.tokens, err = service.NewTokenService(config.JWTConfig{
		Secret:           "test-secret",
		ExpirationTime:   time.Hour,
		SigningAlgorithm: "HS256",
	}, tokenStore, env.blacklist, env.clock.Now)
	require.NoError(t, err)

	auth := NewAuthMiddleware(service.NewAccessGate(env.tokens, env.users))

	env.router = gin.New()
	env.router.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": AccessToken(c)})
	})
	env.router.DELETE("/moderated", auth.RequireAuth(), RequireRole(constants.RoleAdmin, constants.RoleModerator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return env
}

func (env *authEnv) user(t *testing.T, email, role string, active bool) (*model.User, string) {
	t.Helper()
	user := env.users.Put(testutil.NewUser(email, role, active, "x"))
	token, err := env.tokens.Issue(context.Background(), user.Subject(), user.ID)
	require.NoError(t, err)
	return user, token
}

func (env *authEnv) do(method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func assertUnauthorized(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())
}

func TestRequireAuth_Accepts(t *testing.T) {
	env := newAuthEnv(t)
	alice, token := env.user(t, "alice@example.com", constants.RoleUser, true)

	for _, header := range []string{"Bearer " + token, "bearer " + token} {
		w := env.do(http.MethodGet, "/me", header)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			ID    uint   `json:"id"`
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, alice.ID, body.ID)
		assert.Equal(t, token, body.Token)
	}
}

func TestRequireAuth_RejectsUniformly(t *testing.T) {
	env := newAuthEnv(t)
	_, token := env.user(t, "alice@example.com", constants.RoleUser, true)
	_, revoked := env.user(t, "bob@example.com", constants.RoleUser, true)
	require.NoError(t, env.blacklist.Revoke(context.Background(), revoked))

	ghost, err := env.tokens.Issue(context.Background(), "ghost@example.com", 99)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic " + token},
		{"no token", "Bearer "},
		{"token only", token},
		{"garbage", "Bearer not-a-token"},
		{"revoked", "Bearer " + revoked},
		{"unknown user", "Bearer " + ghost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertUnauthorized(t, env.do(http.MethodGet, "/me", tt.header))
		})
	}
}

func TestRequireAuth_Expired(t *testing.T) {
	env := newAuthEnv(t)
	_, token := env.user(t, "alice@example.com", constants.RoleUser, true)

	env.clock.Advance(time.Hour)
	assertUnauthorized(t, env.do(http.MethodGet, "/me", "Bearer "+token))
}

func TestRequireAuth_InactiveUser(t *testing.T) {
	env := newAuthEnv(t)
	_, token := env.user(t, "alice@example.com", constants.RoleUser, false)

	w := env.do(http.MethodGet, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"inactive user"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	env := newAuthEnv(t)
	_, userToken := env.user(t, "user@example.com", constants.RoleUser, true)
	_, modToken := env.user(t, "mod@example.com", constants.RoleModerator, true)
	_, adminToken := env.user(t, "admin@example.com", constants.RoleAdmin, true)

	w := env.do(http.MethodDelete, "/moderated", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"operation not permitted"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/moderated", "Bearer "+modToken).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/moderated", "Bearer "+adminToken).Code)
	assertUnauthorized(t, env.do(http.MethodDelete, "/moderated", ""))
}

func TestRequireRole_WithoutAuthIsForbidden(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(constants.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

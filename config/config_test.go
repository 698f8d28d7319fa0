package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "HS256", cfg.JWT.SigningAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.JWT.ExpirationTime)
	assert.Equal(t, time.Hour, cfg.Security.BlacklistPruneEvery)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Events.DialTimeout)
	assert.Empty(t, cfg.App.TrustedProxies)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION", "15m")
	t.Setenv("JWT_SIGNING_ALGORITHM", "hs512")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("BLACKLIST_PRUNE_INTERVAL", "0")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,127.0.0.1 ")
	t.Setenv("EVENTS_DIAL_TIMEOUT", "750ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.ExpirationTime)
	assert.Equal(t, "HS512", cfg.JWT.SigningAlgorithm)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Zero(t, cfg.Security.BlacklistPruneEvery)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.App.TrustedProxies)
	assert.Equal(t, 750*time.Millisecond, cfg.Events.DialTimeout)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{Environment: "development"},
			JWT:      JWTConfig{Secret: "x", ExpirationTime: time.Minute, SigningAlgorithm: "HS256"},
			Security: SecurityConfig{BcryptCost: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "rsa algorithm", mutate: func(c *Config) { c.JWT.SigningAlgorithm = "RS256" }, wantErr: true},
		{name: "none algorithm", mutate: func(c *Config) { c.JWT.SigningAlgorithm = "none" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.JWT.ExpirationTime = 0 }, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Security.BcryptCost = 2 }, wantErr: true},
		{
			name: "default secret in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.JWT.Secret = defaultJWTSecret
			},
			wantErr: true,
		},
		{
			name: "default secret in development",
			mutate: func(c *Config) {
				c.JWT.Secret = defaultJWTSecret
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DatabaseConnectionString(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Name: "photos", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=photos sslmode=disable", cfg.DatabaseConnectionString())
}

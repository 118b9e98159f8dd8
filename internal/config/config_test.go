// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/codeburry")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := load("")
	require.NoError(t, err)

	require.Equal(t, 4000, c.Server.Port)
	require.Equal(t, 7*24*time.Hour, c.JWT.Expire)
	require.Equal(t, "token", c.Auth.CookieName)
	require.Equal(t, StoreDriverPostgres, c.Store.Driver)
	require.Equal(t, 5, c.Progress.LessonReward)
	require.Equal(t, "/avatar.png", c.Auth.DefaultAvatar)
	require.Empty(t, c.Auth.AdminEmails)
	require.True(t, c.IsDevelopment())
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("ADMIN_EMAILS", " Admin@Example.com , ops@example.com,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("STORE_DRIVER", "memory")

	c, err := load("")
	require.NoError(t, err)

	require.Equal(t, 8081, c.Server.Port)
	require.Equal(t, []string{"admin@example.com", "ops@example.com"}, c.Auth.AdminEmails)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORS.AllowedOrigins)
	require.Equal(t, StoreDriverMemory, c.Store.Driver)
}

func TestLoadFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "progress:\n  lesson_reward: 7\nrealtime:\n  channel: feed\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	c, err := load(path)
	require.NoError(t, err)
	require.Equal(t, 7, c.Progress.LessonReward)
	require.Equal(t, "feed", c.Realtime.Channel)
}

func TestLoadRejectsInsecureSecrets(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing secret",
			env:  map[string]string{"JWT_SECRET": ""},
		},
		{
			name: "development fallback secret",
			env:  map[string]string{"JWT_SECRET": "dev-secret-change-me"},
		},
		{
			name: "short secret in production",
			env: map[string]string{
				"JWT_SECRET":    "short",
				"ENVIRONMENT":   "production",
				"COOKIE_SECURE": "true",
			},
		},
		{
			name: "insecure cookie in production",
			env: map[string]string{
				"ENVIRONMENT": "production",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load("")
			require.Error(t, err)
		})
	}
}

func TestSessionLifetimeIsFixed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRE", "1m")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  expire: 5m\n"), 0o600))

	c, err := load(path)
	require.NoError(t, err)
	require.Equal(t, SessionLifetime, c.JWT.Expire)
	require.Equal(t, 7*24*time.Hour, c.JWT.Expire)
}

func TestLoadRejectsNonPositiveRealtimeTimeouts(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero pong timeout", "realtime:\n  pong_timeout: 0s\n", "realtime.pong_timeout"},
		{"negative write timeout", "realtime:\n  write_timeout: -1s\n", "realtime.write_timeout"},
		{"zero send buffer", "realtime:\n  send_buffer: 0\n", "realtime.send_buffer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			_, err := load(path)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadRequiresStoreURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := load("")
	require.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("STORE_DRIVER", "memory")
	_, err = load("")
	require.NoError(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := load("")
	require.ErrorContains(t, err, "unknown store driver")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "JWT_SECRET",
	"SESSION_TTL", "SESSION_COOKIE", "COOKIE_SECURE", "LISTEN_ADDR", "WORKER_COUNT",
	"LOGIN_RATE", "LOGIN_BURST", "GATE_MODE", "GATE_INTERNAL_PREFIX", "DEBUG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://db", cfg.DatabaseURL)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 0, cfg.RedisDB)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, DefaultSessionCookie, cfg.SessionCookie)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 1, cfg.WorkerCount)
	require.Equal(t, 1.0, cfg.LoginRate)
	require.Equal(t, 5, cfg.LoginBurst)
	require.Equal(t, GateModeSession, cfg.GateMode)
	require.Equal(t, "/_app", cfg.InternalPrefix)
	require.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("LOGIN_RATE", "0.5")
	t.Setenv("LOGIN_BURST", "3")
	t.Setenv("GATE_MODE", "Allow-All")
	t.Setenv("GATE_INTERNAL_PREFIX", "/_next")
	t.Setenv("DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 4, cfg.WorkerCount)
	require.Equal(t, 0.5, cfg.LoginRate)
	require.Equal(t, 3, cfg.LoginBurst)
	require.Equal(t, GateModeAllowAll, cfg.GateMode)
	require.Equal(t, "/_next", cfg.InternalPrefix)
	require.True(t, cfg.Debug)
}

func TestLoadErrors(t *testing.T) {
	base := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://db")
		t.Setenv("JWT_SECRET", "0123456789abcdef")
	}

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database", "DATABASE_URL", ""},
		{"short secret", "JWT_SECRET", "short"},
		{"bad redis db", "REDIS_DB", "x"},
		{"negative redis db", "REDIS_DB", "-1"},
		{"bad ttl", "SESSION_TTL", "forever"},
		{"zero ttl", "SESSION_TTL", "0s"},
		{"bad bool", "COOKIE_SECURE", "maybe"},
		{"zero workers", "WORKER_COUNT", "0"},
		{"bad rate", "LOGIN_RATE", "fast"},
		{"zero burst", "LOGIN_BURST", "0"},
		{"bad gate mode", "GATE_MODE", "open"},
		{"relative prefix", "GATE_INTERNAL_PREFIX", "_app"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base(t)
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("CONSOLE_TEST_KEY=from-file\n"), 0o600))
	t.Setenv("CONSOLE_TEST_KEY", "")
	os.Unsetenv("CONSOLE_TEST_KEY")

	loaded, err := LoadEnvFiles(filepath.Join(dir, "missing.env"), "", p)
	require.NoError(t, err)
	require.Equal(t, []string{p}, loaded)
	require.Equal(t, "from-file", os.Getenv("CONSOLE_TEST_KEY"))
}

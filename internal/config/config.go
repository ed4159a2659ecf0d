// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gate modes.
const (
	GateModeSession  = "session"
	GateModeAllowAll = "allow-all"
)

const (
	DefaultSessionTTL     = 24 * time.Hour
	DefaultSessionCookie  = "console_session"
	DefaultListenAddr     = ":8080"
	DefaultWorkerCount    = 1
	DefaultLoginRate      = 1.0
	DefaultLoginBurst     = 5
	DefaultInternalPrefix = "/_app"
	minSecretLen          = 16
)

// Config 服務設定，全部來自環境變數
type Config struct {
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	SessionTTL     time.Duration
	SessionCookie  string
	CookieSecure   bool
	ListenAddr     string
	WorkerCount    int
	LoginRate      float64
	LoginBurst     int
	GateMode       string
	InternalPrefix string
	Debug          bool
}

// LoadEnvFiles 依序嘗試載入 .env 檔；已存在的環境變數不會被覆蓋。
// 找不到檔案不算錯誤，回傳實際載入的檔名。
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("載入 %s 失敗: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// Load 讀取並驗證環境變數
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionCookie:  getEnvOrDefault("SESSION_COOKIE", DefaultSessionCookie),
		ListenAddr:     getEnvOrDefault("LISTEN_ADDR", DefaultListenAddr),
		GateMode:       strings.ToLower(getEnvOrDefault("GATE_MODE", GateModeSession)),
		InternalPrefix: getEnvOrDefault("GATE_INTERNAL_PREFIX", DefaultInternalPrefix),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return nil, fmt.Errorf("環境變數 JWT_SECRET 未設定或少於 %d 字元", minSecretLen)
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.Debug, err = getBool("DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getInt("WORKER_COUNT", DefaultWorkerCount); err != nil {
		return nil, err
	}
	if cfg.LoginBurst, err = getInt("LOGIN_BURST", DefaultLoginBurst); err != nil {
		return nil, err
	}
	if cfg.LoginRate, err = getFloat("LOGIN_RATE", DefaultLoginRate); err != nil {
		return nil, err
	}

	switch {
	case cfg.RedisDB < 0:
		return nil, fmt.Errorf("無效的 REDIS_DB: %d", cfg.RedisDB)
	case cfg.SessionTTL <= 0:
		return nil, fmt.Errorf("無效的 SESSION_TTL: %s", cfg.SessionTTL)
	case cfg.WorkerCount <= 0:
		return nil, fmt.Errorf("無效的 WORKER_COUNT: %d", cfg.WorkerCount)
	case cfg.LoginRate <= 0:
		return nil, fmt.Errorf("無效的 LOGIN_RATE: %v", cfg.LoginRate)
	case cfg.LoginBurst <= 0:
		return nil, fmt.Errorf("無效的 LOGIN_BURST: %d", cfg.LoginBurst)
	}

	if cfg.GateMode != GateModeSession && cfg.GateMode != GateModeAllowAll {
		return nil, fmt.Errorf("無效的 GATE_MODE: %q", cfg.GateMode)
	}
	if !strings.HasPrefix(cfg.InternalPrefix, "/") {
		return nil, fmt.Errorf("GATE_INTERNAL_PREFIX 必須以 / 開頭: %q", cfg.InternalPrefix)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return d, nil
}

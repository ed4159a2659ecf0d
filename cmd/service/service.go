package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/cache"
	"modelfang-console/internal/config"
	"modelfang-console/internal/database"
	"modelfang-console/internal/gate"
	"modelfang-console/internal/metrics"
	mw "modelfang-console/internal/middleware"
	"modelfang-console/internal/router"
	"modelfang-console/internal/service"
	"modelfang-console/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadEnvFiles    = config.LoadEnvFiles
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
)

func run() error {
	loaded, err := loadEnvFiles(os.Getenv("CONSOLE_ENV_FILE"), ".env")
	if err != nil {
		return err
	}
	for _, f := range loaded {
		log.Printf("已載入 %s", f)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	var sessions cache.Cache
	if cfg.RedisAddr == "" {
		log.Print("REDIS_ADDR 未設定，session 只存在本機記憶體")
		sessions = cache.NewMemoryCache()
	} else {
		sessions, err = newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %v", err)
		}
	}
	defer sessions.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	sm, err := service.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL, sessions)
	if err != nil {
		return err
	}
	local := authn.NewLocal(db, sm, wp)
	cc := authn.CookieConfig{Name: cfg.SessionCookie, Secure: cfg.CookieSecure}

	authorizer := router.SessionAuthorizer(local, cc)
	if cfg.GateMode == config.GateModeAllowAll {
		log.Print("GATE_MODE=allow-all：所有請求都會被放行")
		authorizer = gate.AllowAll
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Debug = cfg.Debug
	e.Use(mw.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())

	if err := router.Setup(e, router.Deps{
		DB:         db,
		Cache:      sessions,
		Local:      local,
		Cookie:     cc,
		Metrics:    metrics.New(),
		Authorizer: authorizer,
		Matcher:    gate.NewMatcher([]string{gate.DefaultInternalPrefix, cfg.InternalPrefix}, gate.DefaultStaticExtensions),
		LoginRate:  mw.LoginRateLimit{Rate: cfg.LoginRate, Burst: cfg.LoginBurst},
	}); err != nil {
		return err
	}

	return startServer(e, cfg.ListenAddr)
}

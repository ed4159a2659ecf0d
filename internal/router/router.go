// File: internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/cache"
	"modelfang-console/internal/database"
	"modelfang-console/internal/gate"
	"modelfang-console/internal/handler"
	"modelfang-console/internal/handler/auth"
	"modelfang-console/internal/handler/pages"
	"modelfang-console/internal/handler/users"
	"modelfang-console/internal/metrics"
	"modelfang-console/internal/middleware"
	"modelfang-console/internal/service"
	"modelfang-console/internal/web"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// PublicPaths 不需要 session 的路徑；以 "/" 結尾者為前綴
var PublicPaths = []string{
	"/api/auth/",
	"/api/ping",
	"/metrics",
	"/swagger/",
}

// Deps 路由需要的相依物件
type Deps struct {
	DB      database.DB
	Cache   cache.Cache
	Local   *authn.Local
	Cookie  authn.CookieConfig
	Metrics *metrics.Metrics
	// Authorizer 必填；一般為 SessionAuthorizer
	Authorizer gate.Authorizer
	// Matcher 為 nil 時使用 gate.DefaultMatcher()
	Matcher   *gate.Matcher
	LoginRate middleware.LoginRateLimit
}

// SessionAuthorizer 以 session cookie 或 Bearer token 判斷是否放行
func SessionAuthorizer(l *authn.Local, cc authn.CookieConfig) gate.Authorizer {
	return gate.SessionAuthorizer[*service.SessionClaims](l.Sessions(), cc.SessionToken, pages.LoginPath)
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) error {
	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer

	gateMW, err := gate.New(gate.Config{
		Authorizer:  d.Authorizer,
		Matcher:     d.Matcher,
		LoginPath:   pages.LoginPath,
		PublicPaths: PublicPaths,
		APIPrefix:   "/api/",
		OnDecision:  d.Metrics.ObserveGate,
	})
	if err != nil {
		return fmt.Errorf("request gate: %w", err)
	}
	e.Use(gateMW)

	// 靜態檔案，gate 不攔
	e.StaticFS("/_app/static", web.Static())

	// HTML 頁面
	csrf := middleware.CSRF(d.Cookie.Secure)
	pageLimiter := middleware.LoginRateLimiter(d.LoginRate, pages.Throttled(d.Metrics))
	e.GET(pages.LoginPath, pages.LoginPage, csrf, gate.RedirectIfAuthorized(d.Authorizer, "/"))
	e.POST(pages.LoginPath, pages.LoginSubmit(d.Local, d.Cookie, d.Metrics), csrf, pageLimiter)
	e.GET("/", pages.Dashboard, csrf)
	e.GET("/dashboard", pages.Dashboard, csrf)
	e.POST("/logout", pages.Logout(d.Local, d.Cookie), csrf)

	api := e.Group("/api")

	// 健康檢查（公開）
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 登入、登出與 session 狀態
	apiLimiter := middleware.LoginRateLimiter(d.LoginRate, auth.ThrottledHandler(d.Metrics))
	sameOrigin := middleware.SameOrigin()
	api.POST("/auth/login", auth.LoginHandler(d.Local, d.Cookie, d.Metrics), sameOrigin, apiLimiter)
	api.POST("/auth/logout", auth.LogoutHandler(d.Local, d.Cookie), sameOrigin)
	api.GET("/auth/session", auth.SessionHandler(d.Local, d.Cookie))

	// 目前使用者
	api.GET("/users/me", users.GetMyUserHandler(d.DB))

	// 管理員專屬
	api.POST("/users", users.CreateUserHandler(d.DB), middleware.RequireAdmin)
	api.GET("/users/:name", users.GetUserHandler(d.DB), middleware.RequireAdmin)
	api.PUT("/users/:name/password", users.SetPasswordHandler(d.DB, d.Local.Sessions()), middleware.RequireAdmin)

	// 監控與文件
	e.GET("/metrics", echo.WrapHandler(metricsHandler(d.Metrics)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}

func metricsHandler(m *metrics.Metrics) http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.Handler()
}

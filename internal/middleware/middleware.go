package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"modelfang-console/internal/dto"
	"modelfang-console/internal/gate"
	"modelfang-console/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Claims 回傳 gate 放行時存入的 session claims；allow-all 模式下為 nil
func Claims(c echo.Context) *service.SessionClaims {
	claims, _ := c.Get(gate.ContextPrincipalKey).(*service.SessionClaims)
	return claims
}

// RequireAdmin 只允許管理員；必須掛在 gate 之後
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := Claims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "authentication required"})
		}
		if !claims.IsAdmin {
			return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "admin privileges required"})
		}
		return next(c)
	}
}

// LoginRateLimit 依 client IP 限制登入嘗試次數
type LoginRateLimit struct {
	// Rate 每秒允許的次數
	Rate float64
	// Burst 瞬間可用的額度
	Burst int
	// ExpiresIn 閒置多久後清除該 IP 的 limiter，預設 3 分鐘
	ExpiresIn time.Duration
}

// LoginRateLimiter 回傳登入用的限流 middleware；超過額度時交給 onDeny 回應
func LoginRateLimiter(cfg LoginRateLimit, onDeny echo.HandlerFunc) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.Rate),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "unable to identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			c.Logger().Warnf("login throttled for %s", identifier)
			return onDeny(c)
		},
	})
}

// RequestID 以 UUID 產生 X-Request-ID
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// CSRF 保護 HTML 表單；token 由隱藏欄位 _csrf 或 X-CSRF-Token header 提供
func CSRF(secure bool) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:_csrf,header:" + echo.HeaderXCSRFToken,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

const headerSecFetchSite = "Sec-Fetch-Site"

// SameOrigin 拒絕瀏覽器標示為跨站的請求（Sec-Fetch-Site 或 Origin 與 Host 不符）。
// 沒有這兩個 header 的請求（CLI、curl）照常放行。
func SameOrigin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			switch r.Header.Get(headerSecFetchSite) {
			case "", "same-origin", "none":
			default:
				return crossSite(c)
			}
			if origin := r.Header.Get(echo.HeaderOrigin); origin != "" {
				u, err := url.Parse(origin)
				if err != nil || u.Host == "" || !strings.EqualFold(u.Host, r.Host) {
					return crossSite(c)
				}
			}
			return next(c)
		}
	}
}

func crossSite(c echo.Context) error {
	c.Logger().Warnf("cross-site %s %s rejected (origin %q)", c.Request().Method, c.Path(), c.Request().Header.Get(echo.HeaderOrigin))
	return c.JSON(http.StatusForbidden, dto.HTTPError{Message: "cross-site request rejected"})
}

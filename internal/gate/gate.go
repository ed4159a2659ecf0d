// File: internal/gate/gate.go
package gate

import (
	"errors"
	"net/http"
	"strings"

	"modelfang-console/internal/dto"

	"github.com/labstack/echo/v4"
)

// ContextPrincipalKey 放行時 principal 存放在 echo context 的 key
const ContextPrincipalKey = "principal"

// Outcome labels passed to Config.OnDecision.
const (
	OutcomeSkip     = "skip"
	OutcomeAllow    = "allow"
	OutcomeRedirect = "redirect"
	OutcomeInvalid  = "invalid"
)

// Config 設定 request gate
type Config struct {
	// Authorizer 必填，沒有隱含的全部放行預設值
	Authorizer Authorizer
	// Matcher 為 nil 時使用 DefaultMatcher()
	Matcher *Matcher
	// LoginPath 未登入時導向的位置，預設 /login
	LoginPath string
	// PublicPaths 不經 Authorizer 的路徑；以 "/" 結尾者視為前綴
	PublicPaths []string
	// APIPrefix 底下的請求回 401 JSON 而不是轉址，預設 /api/
	APIPrefix string
	// OnDecision 每個請求的結果，用於 metrics
	OnDecision func(outcome string)
}

// New 建立 request gate middleware
func New(cfg Config) (echo.MiddlewareFunc, error) {
	if cfg.Authorizer == nil {
		return nil, errors.New("gate: authorizer is required")
	}
	if cfg.Matcher == nil {
		cfg.Matcher = DefaultMatcher()
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/"
	}
	observe := cfg.OnDecision
	if observe == nil {
		observe = func(string) {}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := c.Request().URL.Path
			if !cfg.Matcher.Gated(p) || p == cfg.LoginPath || isPublic(cfg.PublicPaths, p) {
				observe(OutcomeSkip)
				return next(c)
			}

			d := cfg.Authorizer.Authorize(c.Request())
			switch {
			case !d.Valid():
				observe(OutcomeInvalid)
				c.Logger().Errorf("gate: authorizer returned no decision for %s", p)
				return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "authorization failed"})
			case d.Allowed():
				observe(OutcomeAllow)
				if d.Principal() != nil {
					c.Set(ContextPrincipalKey, d.Principal())
				}
				return next(c)
			}

			observe(OutcomeRedirect)
			return deny(c, cfg.APIPrefix, d.Location())
		}
	}, nil
}

func deny(c echo.Context, apiPrefix, location string) error {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, apiPrefix) {
		return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "authentication required"})
	}
	// HTMX 請求用 HX-Redirect 讓前端自己換頁
	if req.Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", location)
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.Redirect(http.StatusFound, location)
}

func isPublic(public []string, p string) bool {
	for _, pub := range public {
		if strings.HasSuffix(pub, "/") {
			if strings.HasPrefix(p, pub) || p == strings.TrimSuffix(pub, "/") {
				return true
			}
			continue
		}
		if p == pub {
			return true
		}
	}
	return false
}

// RedirectIfAuthorized 已登入的使用者進入登入頁時直接導向 target；
// 沒有 principal 的放行（例如 AllowAll）不算已登入
func RedirectIfAuthorized(a Authorizer, target string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if d := a.Authorize(c.Request()); d.Allowed() && d.Principal() != nil {
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}

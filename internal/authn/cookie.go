package authn

import (
	"net/http"
	"strings"
	"time"

	"modelfang-console/internal/model"

	"github.com/labstack/echo/v4"
)

// DefaultCookieName is the session cookie used when none is configured.
const DefaultCookieName = "console_session"

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

func (cc CookieConfig) name() string {
	if cc.Name == "" {
		return DefaultCookieName
	}
	return cc.Name
}

// SetSessionCookie writes s as an HttpOnly cookie that expires with the session.
func SetSessionCookie(c echo.Context, cc CookieConfig, s *model.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetCookie(&http.Cookie{
		Name:     cc.name(),
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie deletes the session cookie.
func ClearSessionCookie(c echo.Context, cc CookieConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cc.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken extracts session evidence from r: the session cookie first,
// then an "Authorization: Bearer" header.
func (cc CookieConfig) SessionToken(r *http.Request) string {
	if ck, err := r.Cookie(cc.name()); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(r.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

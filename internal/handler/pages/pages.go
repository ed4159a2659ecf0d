// File: internal/handler/pages/pages.go
package pages

import (
	"context"
	"errors"
	"net/http"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/gate"
	"modelfang-console/internal/loginform"
	"modelfang-console/internal/metrics"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"
	"modelfang-console/internal/web"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// LoginPath 登入頁路徑
const LoginPath = "/login"

var signOut = func(l *authn.Local, ctx context.Context, token string) error {
	return l.SignOut(ctx, token)
}

// newAuthenticator 測試時替換成假的 loginform.Authenticator
var newAuthenticator = func(l *authn.Local, onSession func(*model.Session)) loginform.Authenticator {
	return authn.SessionAuthenticator{Local: l, OnSession: onSession}
}

func csrfToken(c echo.Context) string {
	tok, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return tok
}

// redirectNavigator 把 loginform 的導頁轉成 HTTP 回應
type redirectNavigator struct {
	c      echo.Context
	target string
}

func (n *redirectNavigator) Push(path string) { n.target = path }

// Refresh 要求瀏覽器不要使用快取的頁面，重新向伺服器取得狀態
func (n *redirectNavigator) Refresh() {
	n.c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
}

// LoginPage GET /login
func LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageLogin, web.LoginData{CSRFToken: csrfToken(c)})
}

// LoginSubmit POST /login
func LoginSubmit(local *authn.Local, cc authn.CookieConfig, m *metrics.Metrics) echo.HandlerFunc {
	return func(c echo.Context) error {
		var creds loginform.Credentials
		if err := c.Bind(&creds); err != nil {
			m.ObserveLogin(metrics.LoginIncomplete)
			return c.Render(http.StatusBadRequest, web.PageLogin, web.LoginData{CSRFToken: csrfToken(c)})
		}

		var backendErr error
		inner := newAuthenticator(local, func(s *model.Session) { authn.SetSessionCookie(c, cc, s) })
		auth := loginform.AuthenticatorFunc(func(ctx context.Context, cr loginform.Credentials, o loginform.Options) (loginform.Result, error) {
			res, err := inner.SignIn(ctx, cr, o)
			backendErr = err
			return res, err
		})

		nav := &redirectNavigator{c: c}
		form := loginform.New(auth, nav)
		err := form.Submit(c.Request().Context(), creds)

		data := web.LoginData{Username: creds.Username, CSRFToken: csrfToken(c)}
		switch {
		case err == nil:
			m.ObserveLogin(metrics.LoginSuccess)
			return c.Redirect(http.StatusSeeOther, nav.target)
		case errors.Is(err, loginform.ErrIncomplete):
			m.ObserveLogin(metrics.LoginIncomplete)
			return c.Render(http.StatusBadRequest, web.PageLogin, data)
		case backendErr != nil:
			m.ObserveLogin(metrics.LoginError)
			c.Logger().Errorf("login page: %v", backendErr)
		default:
			m.ObserveLogin(metrics.LoginFailure)
		}

		st := form.State()
		data.Error = st.ErrorMessage()
		data.Loading = st.Loading()
		return c.Render(http.StatusUnauthorized, web.PageLogin, data)
	}
}

// Throttled 登入頁被限流時重新顯示表單
func Throttled(m *metrics.Metrics) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.ObserveLogin(metrics.LoginThrottled)
		return c.Render(http.StatusTooManyRequests, web.PageLogin, web.LoginData{
			Username:  c.FormValue("username"),
			Error:     loginform.InvalidCredentialsMessage,
			CSRFToken: csrfToken(c),
		})
	}
}

// Dashboard GET /
func Dashboard(c echo.Context) error {
	data := web.IndexData{CSRFToken: csrfToken(c)}
	if claims, ok := c.Get(gate.ContextPrincipalKey).(*service.SessionClaims); ok {
		data.User = &web.PageUser{Name: claims.Username, IsAdmin: claims.IsAdmin}
		if claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time
			data.Expires = &exp
		}
	}
	return c.Render(http.StatusOK, web.PageIndex, data)
}

// Logout POST /logout
func Logout(local *authn.Local, cc authn.CookieConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := signOut(local, c.Request().Context(), cc.SessionToken(c.Request())); err != nil {
			c.Logger().Errorf("logout: %v", err)
		}
		authn.ClearSessionCookie(c, cc)
		return c.Redirect(http.StatusSeeOther, LoginPath)
	}
}

// File: internal/handler/auth/login.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/dto"
	"modelfang-console/internal/loginform"
	"modelfang-console/internal/metrics"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"

	"github.com/labstack/echo/v4"
)

// CodeTooManyRequests 登入被限流時回傳的錯誤碼
const CodeTooManyRequests = "TooManyRequests"

var (
	signIn = func(l *authn.Local, ctx context.Context, username, password string) (*model.Session, error) {
		return l.SignIn(ctx, username, password)
	}
	signOut = func(l *authn.Local, ctx context.Context, token string) error {
		return l.SignOut(ctx, token)
	}
	verifySession = func(l *authn.Local, ctx context.Context, token string) (*service.SessionClaims, error) {
		return l.Sessions().Verify(ctx, token)
	}
)

// LoginHandler 使用 Username/Password 驗證並發行 session
// @Summary     登入使用者
// @Description 使用 Username 與 Password 進行驗證；成功時設定 session cookie 並回傳存取令牌。
// @Description redirect=true 時改以 303 導向 /
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Accept      json
// @Produce     json
// @Param       username formData string true  "使用者名稱"
// @Param       password formData string true  "使用者密碼"
// @Param       redirect formData bool   false "成功後是否直接轉址"
// @Success     200      {object} dto.SignInResponse
// @Success     303
// @Failure     400      {object} dto.SignInResponse
// @Failure     401      {object} dto.SignInResponse
// @Failure     403      {object} dto.HTTPError
// @Failure     429      {object} dto.SignInResponse
// @Failure     500      {object} dto.HTTPError
// @Router      /auth/login [post]
func LoginHandler(local *authn.Local, cc authn.CookieConfig, m *metrics.Metrics) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		// 先 Bind
		if err := c.Bind(&req); err != nil {
			m.ObserveLogin(metrics.LoginIncomplete)
			return c.JSON(http.StatusBadRequest, failure(http.StatusBadRequest))
		}
		// 再驗證結構化參數 (go-playground/validator)
		if err := c.Validate(&req); err != nil {
			m.ObserveLogin(metrics.LoginIncomplete)
			return c.JSON(http.StatusBadRequest, failure(http.StatusBadRequest))
		}

		s, err := signIn(local, c.Request().Context(), req.Username, req.Password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			m.ObserveLogin(metrics.LoginFailure)
			return c.JSON(http.StatusUnauthorized, failure(http.StatusUnauthorized))
		}
		if err != nil {
			m.ObserveLogin(metrics.LoginError)
			c.Logger().Errorf("login: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "sign-in unavailable"})
		}

		m.ObserveLogin(metrics.LoginSuccess)
		authn.SetSessionCookie(c, cc, s)
		if req.Redirect {
			return c.Redirect(http.StatusSeeOther, loginform.RootPath)
		}
		expires := s.ExpiresAt
		return c.JSON(http.StatusOK, dto.SignInResponse{
			OK:          true,
			Status:      http.StatusOK,
			URL:         loginform.RootPath,
			AccessToken: s.Token,
			ExpiresAt:   &expires,
		})
	}
}

func failure(status int) dto.SignInResponse {
	return dto.SignInResponse{Status: status, Error: loginform.CodeCredentialsSignin}
}

// ThrottledHandler 限流時的 API 回應
func ThrottledHandler(m *metrics.Metrics) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.ObserveLogin(metrics.LoginThrottled)
		return c.JSON(http.StatusTooManyRequests, dto.SignInResponse{
			Status: http.StatusTooManyRequests,
			Error:  CodeTooManyRequests,
		})
	}
}

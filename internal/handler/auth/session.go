// File: internal/handler/auth/session.go
package auth

import (
	"net/http"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/dto"

	"github.com/labstack/echo/v4"
)

// SessionHandler 回傳目前的登入狀態
// @Summary     目前的 session
// @Description 已登入時回傳使用者與到期時間，否則回傳空物件
// @Tags        auth
// @Produce     json
// @Success     200 {object} dto.SessionResponse
// @Router      /auth/session [get]
func SessionHandler(local *authn.Local, cc authn.CookieConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := cc.SessionToken(c.Request())
		if token == "" {
			return c.JSON(http.StatusOK, dto.SessionResponse{})
		}
		claims, err := verifySession(local, c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusOK, dto.SessionResponse{})
		}

		resp := dto.SessionResponse{
			User: &dto.SessionUser{ID: claims.UserID, Name: claims.Username, IsAdmin: claims.IsAdmin},
		}
		if claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time
			resp.Expires = &exp
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// File: internal/handler/auth/logout.go
package auth

import (
	"net/http"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/dto"

	"github.com/labstack/echo/v4"
)

// LogoutHandler 撤銷目前的 session 並清除 cookie
// @Summary     登出
// @Description 撤銷 cookie 或 Bearer token 對應的 session；未登入時同樣回傳 200
// @Tags        auth
// @Produce     json
// @Success     200 {object} dto.SessionResponse
// @Failure     403 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Router      /auth/logout [post]
func LogoutHandler(local *authn.Local, cc authn.CookieConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := signOut(local, c.Request().Context(), cc.SessionToken(c.Request())); err != nil {
			c.Logger().Errorf("logout: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "sign-out failed"})
		}
		authn.ClearSessionCookie(c, cc)
		return c.JSON(http.StatusOK, dto.SessionResponse{})
	}
}

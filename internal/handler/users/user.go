package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"modelfang-console/internal/database"
	"modelfang-console/internal/dto"
	"modelfang-console/internal/middleware"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"
	"modelfang-console/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword       = service.HashPassword
	createUser         = store.CreateUser
	getUserByID        = store.GetUserByID
	getUserByName      = store.GetUserByName
	updateUserPassword = store.UpdateUserPassword
)

// SessionRevoker 讓使用者既有的 session 全部失效
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID int) error
}

func toResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// @Summary     Create a new user
// @Description 管理員建立帳號 (Email 會自動轉小寫)
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Accept      json
// @Produce     json
// @Param       name     formData string  true  "登入名稱"
// @Param       email    formData string  false "使用者 Email (lowercase)"
// @Param       password formData string  true  "初始密碼"
// @Param       is_admin formData boolean false "是否為管理員"
// @Success     201      {object} dto.UserResponse
// @Failure     400      {object} dto.HTTPError
// @Failure     401      {object} dto.HTTPError
// @Failure     403      {object} dto.HTTPError
// @Failure     500      {object} dto.HTTPError
// @Security    SessionCookie
// @Security    BearerAuth
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Name:         req.Name,
			Email:        strings.ToLower(req.Email),
			PasswordHash: hash,
			IsAdmin:      req.IsAdmin,
		})
		if err != nil {
			c.Logger().Errorf("create user: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to create user"})
		}
		return c.JSON(http.StatusCreated, toResponse(user))
	}
}

// @Summary     Get a user by name
// @Description 透過登入名稱查詢使用者
// @Tags        users
// @Produce     json
// @Param       name path     string true "登入名稱"
// @Success     200  {object} dto.UserResponse
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError "使用者不存在"
// @Failure     500  {object} dto.HTTPError
// @Security    SessionCookie
// @Security    BearerAuth
// @Router      /users/{name} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := getUserByName(c.Request().Context(), db, c.Param("name"))
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, dto.HTTPError{Message: "user not found"})
		}
		if err != nil {
			c.Logger().Errorf("get user: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to load user"})
		}
		return c.JSON(http.StatusOK, toResponse(user))
	}
}

// @Summary     Reset a user's password
// @Description 管理員重設密碼；該使用者既有的 session 全部失效
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Accept      json
// @Param       name     path     string true "登入名稱"
// @Param       password formData string true "新密碼"
// @Success     204      "No Content"
// @Failure     400      {object} dto.HTTPError
// @Failure     401      {object} dto.HTTPError
// @Failure     403      {object} dto.HTTPError
// @Failure     404      {object} dto.HTTPError
// @Failure     500      {object} dto.HTTPError
// @Security    SessionCookie
// @Security    BearerAuth
// @Router      /users/{name}/password [put]
func SetPasswordHandler(db database.DB, sessions SessionRevoker) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.SetPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to hash password"})
		}
		ctx := c.Request().Context()
		user, err := getUserByName(ctx, db, c.Param("name"))
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, dto.HTTPError{Message: "user not found"})
		}
		if err != nil {
			c.Logger().Errorf("set password: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to load user"})
		}
		err = updateUserPassword(ctx, db, user.Name, hash)
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, dto.HTTPError{Message: "user not found"})
		}
		if err != nil {
			c.Logger().Errorf("set password: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to update password"})
		}
		if err := sessions.RevokeUser(ctx, user.ID); err != nil {
			c.Logger().Errorf("set password: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "password updated, failed to revoke sessions"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Get current user info
// @Description 依目前的 session 回傳使用者詳細資訊
// @Tags        users
// @Produce     json
// @Success     200 {object} dto.UserResponse
// @Failure     401 {object} dto.HTTPError
// @Failure     500 {object} dto.HTTPError
// @Security    SessionCookie
// @Security    BearerAuth
// @Router      /users/me [get]
func GetMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.Claims(c)
		if claims == nil || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "authentication required"})
		}
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			c.Logger().Errorf("get me: %v", err)
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to load user"})
		}
		return c.JSON(http.StatusOK, toResponse(user))
	}
}

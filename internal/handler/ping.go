// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"modelfang-console/internal/cache"
	"modelfang-console/internal/database"
	"modelfang-console/internal/dto"

	"github.com/labstack/echo/v4"
)

const pingKey = "console:ping"

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查（公開）
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫連線與 session 快取是否可寫入
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     500 {object} dto.HTTPError
// @Router      /ping [get]
func PingHandler(db database.DB, c cache.Cache) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx := ctx.Request().Context()
		if err := db.Ping(reqCtx); err != nil {
			ctx.Logger().Errorf("ping: database: %v", err)
			return ctx.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "database unhealthy"})
		}
		if err := c.Set(reqCtx, pingKey, time.Now().Unix(), time.Minute).Err(); err != nil {
			ctx.Logger().Errorf("ping: cache: %v", err)
			return ctx.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "cache unhealthy"})
		}
		return ctx.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}

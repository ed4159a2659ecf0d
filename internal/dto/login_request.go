// File: internal/dto/login_request.go
package dto

// swagger:model dto.LoginRequest
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required" example:"admin"`
	Password string `form:"password" json:"password" validate:"required" example:"Secret123!"`
	// Redirect 為 true 時成功後直接 303 轉到 /
	Redirect bool `form:"redirect" json:"redirect" example:"false"`
}

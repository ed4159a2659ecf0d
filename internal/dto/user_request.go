// File: internal/dto/user_request.go
package dto

// CreateUserRequest 管理員建立帳號 (form data 或 JSON)
// swagger:model dto.CreateUserRequest
type CreateUserRequest struct {
	// 登入名稱
	Name string `form:"name" json:"name" validate:"required,max=128" example:"alice"`
	// Email，可留空
	Email string `form:"email" json:"email" validate:"omitempty,email" example:"alice@example.com"`
	// 初始密碼
	Password string `form:"password" json:"password" validate:"required,min=8,max=72" example:"Secret123!"`
	// 是否為管理員
	IsAdmin bool `form:"is_admin" json:"is_admin" example:"false"`
}

// SetPasswordRequest 管理員重設密碼
// swagger:model dto.SetPasswordRequest
type SetPasswordRequest struct {
	Password string `form:"password" json:"password" validate:"required,min=8,max=72" example:"NewSecret123!"`
}

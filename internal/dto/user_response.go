// File: internal/dto/user_response.go
package dto

import "time"

// swagger:model dto.SessionUser
type SessionUser struct {
	ID      int    `json:"id" example:"1"`
	Name    string `json:"name" example:"admin"`
	IsAdmin bool   `json:"is_admin" example:"false"`
}

// SessionResponse 目前的登入狀態，未登入時為空物件
// swagger:model dto.SessionResponse
type SessionResponse struct {
	User    *SessionUser `json:"user,omitempty"`
	Expires *time.Time   `json:"expires,omitempty" example:"2025-05-09T15:04:05Z"`
}

// UserResponse 定義回傳的使用者資訊
// swagger:model dto.UserResponse
type UserResponse struct {
	ID          int        `json:"id" example:"1"`
	Name        string     `json:"name" example:"alice"`
	Email       string     `json:"email" example:"alice@example.com"`
	IsAdmin     bool       `json:"is_admin" example:"false"`
	CreatedAt   time.Time  `json:"created_at" example:"2025-05-01T15:04:05Z"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" example:"2025-05-09T15:04:05Z"`
}

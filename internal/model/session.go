// File: internal/model/session.go
package model

import "time"

// Session 一次成功登入所產生的 session evidence
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

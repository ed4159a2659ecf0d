// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"sync"

	"modelfang-console/internal/model"
)

// ErrInvalidCredentials 帳號或密碼錯誤；刻意不區分是哪一個欄位錯
var ErrInvalidCredentials = errors.New("invalid credentials")

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// AuthenticateUser 比對使用者的 bcrypt 哈希與明文密碼
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// RejectUnknownUser 查無使用者時仍做一次 bcrypt 比對，
// 讓回應時間不會透露帳號是否存在，永遠回傳 ErrInvalidCredentials
func RejectUnknownUser(password string) error {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("modelfang-console/unknown-user")
	})
	_ = ComparePassword(dummyHash, password)
	return ErrInvalidCredentials
}

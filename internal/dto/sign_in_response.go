// File: internal/dto/sign_in_response.go
package dto

import "time"

// SignInResponse 登入結果；Error 非空代表失敗
// swagger:model dto.SignInResponse
type SignInResponse struct {
	OK          bool       `json:"ok" example:"true"`
	Status      int        `json:"status" example:"200"`
	Error       string     `json:"error,omitempty" example:"CredentialsSignin"`
	URL         string     `json:"url,omitempty" example:"/"`
	AccessToken string     `json:"access_token,omitempty" example:"eyJhbGciOi..."`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" example:"2025-05-09T15:04:05Z"`
}

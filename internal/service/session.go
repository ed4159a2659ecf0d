// File: internal/service/session.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"modelfang-console/internal/cache"
	"modelfang-console/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionRevoked token 本身有效，但 session 已登出或過期
var ErrSessionRevoked = errors.New("session revoked")

const (
	sessionKeyPrefix = "session:"
	// 使用者層級的撤銷時間（unix 秒），早於此時間簽發的 session 一律無效
	revokedBeforePrefix = "session-revoked-before:"
)

var (
	timeNow         = time.Now
	newSessionID    = uuid.NewString
	parseWithClaims = jwt.ParseWithClaims
)

// SessionClaims 定義 session JWT 負載內容
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int    `json:"uid"`
	Username  string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// SessionManager 發行、驗證與撤銷 session evidence。
// cache 為 nil 時只做無狀態的 JWT 驗證，無法撤銷。
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	cache  cache.Cache
}

func NewSessionManager(secret string, ttl time.Duration, c cache.Cache) (*SessionManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret not set")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid session ttl: %s", ttl)
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, cache: c}, nil
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

func sessionKey(sid string) string { return sessionKeyPrefix + sid }

func revokedBeforeKey(userID int) string { return revokedBeforePrefix + strconv.Itoa(userID) }

// Issue 為通過驗證的使用者建立 session：簽發 JWT 並登記到快取
func (m *SessionManager) Issue(ctx context.Context, user model.User) (*model.Session, error) {
	now := timeNow()
	sid := newSessionID()
	expiresAt := now.Add(m.ttl)

	claims := SessionClaims{
		SessionID: sid,
		UserID:    user.ID,
		Username:  user.Name,
		IsAdmin:   user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, sessionKey(sid), user.ID, m.ttl).Err(); err != nil {
			return nil, fmt.Errorf("register session: %w", err)
		}
	}

	return &model.Session{
		ID:        sid,
		Token:     token,
		UserID:    user.ID,
		Username:  user.Name,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify 驗證簽章、演算法與到期時間，再確認 session 尚未撤銷
func (m *SessionManager) Verify(ctx context.Context, tokenString string) (*SessionClaims, error) {
	token, err := parseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token")
	}

	if m.cache != nil {
		if err := m.cache.Get(ctx, sessionKey(claims.SessionID)).Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, ErrSessionRevoked
			}
			return nil, fmt.Errorf("lookup session: %w", err)
		}
		cutoff, err := m.cache.Get(ctx, revokedBeforeKey(claims.UserID)).Int64()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return nil, fmt.Errorf("lookup user revocation: %w", err)
		case claims.IssuedAt == nil || claims.IssuedAt.Unix() < cutoff:
			return nil, ErrSessionRevoked
		}
	}
	return claims, nil
}

// Revoke 撤銷 session（登出）
func (m *SessionManager) Revoke(ctx context.Context, sid string) error {
	if m.cache == nil || sid == "" {
		return nil
	}
	if err := m.cache.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeUser 讓使用者在此之前簽發的所有 session 失效（例如管理員重設密碼）。
// 標記保留一個 session TTL，之後舊 token 本來就已過期。
// 同一秒內簽發的 session 不受影響。
func (m *SessionManager) RevokeUser(ctx context.Context, userID int) error {
	if m.cache == nil {
		return nil
	}
	if err := m.cache.Set(ctx, revokedBeforeKey(userID), timeNow().Unix(), m.ttl).Err(); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

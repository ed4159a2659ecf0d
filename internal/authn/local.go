// File: internal/authn/local.go
package authn

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"modelfang-console/internal/database"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"
	"modelfang-console/internal/store"
	"modelfang-console/internal/worker"
)

var (
	getUserByName      = store.GetUserByName
	touchLastLogin     = store.TouchLastLogin
	authenticateUser   = service.AuthenticateUser
	rejectUnknownUser  = service.RejectUnknownUser
	timeNow            = time.Now
	backgroundDeadline = 5 * time.Second
)

// Local 以資料庫中的 bcrypt 密碼驗證帳密並發行 session
type Local struct {
	db       database.DB
	sessions *service.SessionManager
	pool     worker.Pool
}

func NewLocal(db database.DB, sessions *service.SessionManager, pool worker.Pool) *Local {
	if pool == nil {
		pool = worker.Inline{}
	}
	return &Local{db: db, sessions: sessions, pool: pool}
}

// Sessions 回傳底層的 SessionManager
func (l *Local) Sessions() *service.SessionManager { return l.sessions }

// 超過長度上限的帳密直接視為錯誤帳密，不查資料庫也不跑 bcrypt
const (
	MaxUsernameLength = 128
	MaxPasswordLength = 1024
)

// Authenticate 驗證帳密；帳號不存在、密碼錯誤與超長輸入一律回傳 service.ErrInvalidCredentials
func (l *Local) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if len(username) > MaxUsernameLength || len(password) > MaxPasswordLength {
		return nil, service.ErrInvalidCredentials
	}
	user, err := getUserByName(ctx, l.db, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, rejectUnknownUser(password)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := authenticateUser(ctx, *user, password); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn 驗證成功後發行 session，並在背景更新 last_login_at
func (l *Local) SignIn(ctx context.Context, username, password string) (*model.Session, error) {
	user, err := l.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s, err := l.sessions.Issue(ctx, *user)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	userID, at := user.ID, timeNow()
	if !l.pool.Submit(func() {
		bg, cancel := context.WithTimeout(context.Background(), backgroundDeadline)
		defer cancel()
		if err := touchLastLogin(bg, l.db, userID, at); err != nil {
			log.Printf("authn: %v", err)
		}
	}) {
		log.Printf("authn: last login update for user %d dropped", userID)
	}
	return s, nil
}

// SignOut 撤銷 token 所屬的 session；token 無效時視為已登出
func (l *Local) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := l.sessions.Verify(ctx, token)
	if err != nil {
		return nil
	}
	return l.sessions.Revoke(ctx, claims.SessionID)
}

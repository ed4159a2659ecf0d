package authn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"modelfang-console/internal/cache"
	"modelfang-console/internal/database"
	"modelfang-console/internal/loginform"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"
	"modelfang-console/internal/store"
	"modelfang-console/internal/worker"

	"github.com/stretchr/testify/require"
)

func restoreLocalFns() {
	getUserByName = store.GetUserByName
	touchLastLogin = store.TouchLastLogin
	authenticateUser = service.AuthenticateUser
	rejectUnknownUser = service.RejectUnknownUser
	timeNow = time.Now
}

func newTestLocal(t *testing.T, pool worker.Pool) (*Local, *cache.MemoryCache) {
	t.Helper()
	mem := cache.NewMemoryCache()
	sm, err := service.NewSessionManager("0123456789abcdef", time.Hour, mem)
	require.NoError(t, err)
	return NewLocal(&database.FakeDB{}, sm, pool), mem
}

func TestLocalAuthenticate(t *testing.T) {
	t.Cleanup(restoreLocalFns)

	user := &model.User{ID: 3, Name: "admin", PasswordHash: "hash"}

	tests := []struct {
		name       string
		lookupErr  error
		authErr    error
		wantErr    error
		wantReject bool
	}{
		{name: "ok"},
		{name: "unknown user", lookupErr: fmt.Errorf("GetUserByName: %w", store.ErrUserNotFound), wantErr: service.ErrInvalidCredentials, wantReject: true},
		{name: "wrong password", authErr: service.ErrInvalidCredentials, wantErr: service.ErrInvalidCredentials},
		{name: "db down", lookupErr: errors.New("conn refused")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rejected := false
			getUserByName = func(_ context.Context, _ database.DB, name string) (*model.User, error) {
				require.Equal(t, "admin", name)
				if tc.lookupErr != nil {
					return nil, tc.lookupErr
				}
				return user, nil
			}
			authenticateUser = func(_ context.Context, _ model.User, _ string) error { return tc.authErr }
			rejectUnknownUser = func(string) error {
				rejected = true
				return service.ErrInvalidCredentials
			}

			l, _ := newTestLocal(t, worker.Inline{})
			u, err := l.Authenticate(context.Background(), "admin", "pw")
			require.Equal(t, tc.wantReject, rejected)
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.lookupErr != nil:
				require.Error(t, err)
				require.NotErrorIs(t, err, service.ErrInvalidCredentials)
			default:
				require.NoError(t, err)
				require.Equal(t, 3, u.ID)
			}
		})
	}
}

func TestLocalAuthenticateOverlong(t *testing.T) {
	t.Cleanup(restoreLocalFns)
	getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
		t.Fatal("over-long credentials must not reach the database")
		return nil, nil
	}
	authenticateUser = func(context.Context, model.User, string) error {
		t.Fatal("over-long credentials must not reach bcrypt")
		return nil
	}

	l, _ := newTestLocal(t, worker.Inline{})
	_, err := l.Authenticate(context.Background(), strings.Repeat("a", MaxUsernameLength+1), "pw")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = l.Authenticate(context.Background(), "admin", strings.Repeat("p", MaxPasswordLength+1))
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	res, err := SessionAuthenticator{Local: l}.SignIn(context.Background(),
		loginform.Credentials{Username: strings.Repeat("a", 129), Password: "pw"}, loginform.Options{})
	require.NoError(t, err)
	require.Equal(t, loginform.CodeCredentialsSignin, res.Error)
	require.Equal(t, http.StatusUnauthorized, res.Status)
}

func TestLocalSignInAndSignOut(t *testing.T) {
	t.Cleanup(restoreLocalFns)

	fixed := time.Date(2025, 5, 9, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
		return &model.User{ID: 9, Name: "ops", IsAdmin: true}, nil
	}
	authenticateUser = func(context.Context, model.User, string) error { return nil }

	var touchedID int
	var touchedAt time.Time
	touchLastLogin = func(_ context.Context, _ database.DB, id int, at time.Time) error {
		touchedID, touchedAt = id, at
		return nil
	}

	l, _ := newTestLocal(t, worker.Inline{})
	s, err := l.SignIn(context.Background(), "ops", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, s.Token)
	require.Equal(t, 9, s.UserID)
	require.Equal(t, 9, touchedID)
	require.Equal(t, fixed, touchedAt)

	claims, err := l.Sessions().Verify(context.Background(), s.Token)
	require.NoError(t, err)
	require.Equal(t, "ops", claims.Username)

	require.NoError(t, l.SignOut(context.Background(), s.Token))
	_, err = l.Sessions().Verify(context.Background(), s.Token)
	require.ErrorIs(t, err, service.ErrSessionRevoked)

	// 已登出或空 token 再登出不報錯
	require.NoError(t, l.SignOut(context.Background(), s.Token))
	require.NoError(t, l.SignOut(context.Background(), ""))
}

type rejectingPool struct{ submitted int }

func (p *rejectingPool) Submit(worker.Task) bool { p.submitted++; return false }
func (p *rejectingPool) Stop()                   {}

func TestLocalSignInDroppedBookkeeping(t *testing.T) {
	t.Cleanup(restoreLocalFns)
	getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
		return &model.User{ID: 1, Name: "a"}, nil
	}
	authenticateUser = func(context.Context, model.User, string) error { return nil }
	touchLastLogin = func(context.Context, database.DB, int, time.Time) error {
		t.Fatal("touchLastLogin must not run")
		return nil
	}

	pool := &rejectingPool{}
	l, _ := newTestLocal(t, pool)
	s, err := l.SignIn(context.Background(), "a", "pw")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, 1, pool.submitted)
}

func TestSessionAuthenticator(t *testing.T) {
	t.Cleanup(restoreLocalFns)
	touchLastLogin = func(context.Context, database.DB, int, time.Time) error { return nil }
	getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
		return &model.User{ID: 2, Name: "admin"}, nil
	}

	t.Run("bad credentials", func(t *testing.T) {
		authenticateUser = func(context.Context, model.User, string) error { return service.ErrInvalidCredentials }
		l, _ := newTestLocal(t, nil)
		a := SessionAuthenticator{Local: l, OnSession: func(*model.Session) { t.Fatal("no session expected") }}

		res, err := a.SignIn(context.Background(), loginform.Credentials{Username: "admin", Password: "x"}, loginform.Options{})
		require.NoError(t, err)
		require.False(t, res.OK)
		require.Equal(t, http.StatusUnauthorized, res.Status)
		require.Equal(t, loginform.CodeCredentialsSignin, res.Error)
	})

	t.Run("ok", func(t *testing.T) {
		authenticateUser = func(context.Context, model.User, string) error { return nil }
		l, _ := newTestLocal(t, nil)
		var got *model.Session
		a := SessionAuthenticator{Local: l, OnSession: func(s *model.Session) { got = s }}

		res, err := a.SignIn(context.Background(), loginform.Credentials{Username: "admin", Password: "x"}, loginform.Options{})
		require.NoError(t, err)
		require.True(t, res.OK)
		require.Equal(t, loginform.RootPath, res.URL)
		require.NotNil(t, got)
		require.Equal(t, got.Token, res.Token)
	})

	t.Run("backend error", func(t *testing.T) {
		getUserByName = func(context.Context, database.DB, string) (*model.User, error) {
			return nil, errors.New("boom")
		}
		l, _ := newTestLocal(t, nil)
		_, err := SessionAuthenticator{Local: l}.SignIn(context.Background(), loginform.Credentials{Username: "admin", Password: "x"}, loginform.Options{})
		require.Error(t, err)
	})
}

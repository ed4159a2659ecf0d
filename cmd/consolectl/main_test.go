package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/database"
	"modelfang-console/internal/loginform"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"
	"modelfang-console/internal/store"

	"github.com/stretchr/testify/require"
)

func restoreGlobals() {
	runMigrations = database.RunMigrations
	rollbackAll = database.RollbackAll
	newPgxPool = database.NewPgxPool
	hashPassword = service.HashPassword
	createUser = store.CreateUser
	updateUserPassword = store.UpdateUserPassword
	newAuthenticator = func(server string) loginform.Authenticator { return authn.NewClient(server) }
	exitFunc = func(int) {}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestReadPassword(t *testing.T) {
	pw, err := readPassword(strings.NewReader("secret\r\nignored\n"))
	require.NoError(t, err)
	require.Equal(t, "secret", pw)

	pw, err = readPassword(strings.NewReader("no-newline"))
	require.NoError(t, err)
	require.Equal(t, "no-newline", pw)

	_, err = readPassword(strings.NewReader("\n"))
	require.Error(t, err)
}

func TestMigrate(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("DATABASE_URL", "")

	_, _, err := execute(t, "", "migrate", "up")
	require.Error(t, err)

	var gotUp, gotDown string
	runMigrations = func(url string) error { gotUp = url; return nil }
	rollbackAll = func(url string) error { gotDown = url; return nil }

	out, _, err := execute(t, "", "migrate", "up", "--database-url", "postgres://a")
	require.NoError(t, err)
	require.Equal(t, "postgres://a", gotUp)
	require.Contains(t, out, "applied")

	t.Setenv("DATABASE_URL", "postgres://env")
	_, _, err = execute(t, "", "migrate", "down")
	require.NoError(t, err)
	require.Equal(t, "postgres://env", gotDown)

	runMigrations = func(string) error { return errors.New("dirty") }
	_, _, err = execute(t, "", "migrate", "up")
	require.ErrorContains(t, err, "dirty")
}

func TestUserAdd(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("DATABASE_URL", "postgres://env")

	closed := false
	newPgxPool = func(context.Context, string) (database.DB, error) {
		return &database.FakeDB{CloseFn: func() { closed = true }}, nil
	}
	hashPassword = func(p string) (string, error) {
		require.Equal(t, "s3cret-pass", p)
		return "hash", nil
	}
	var got model.User
	createUser = func(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
		got = *u
		u.ID = 7
		return u, nil
	}

	out, _, err := execute(t, "s3cret-pass\n", "user", "add", "alice", "--email", "Alice@Example.com", "--admin")
	require.NoError(t, err)
	require.Contains(t, out, "id 7")
	require.Equal(t, "alice", got.Name)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "hash", got.PasswordHash)
	require.True(t, got.IsAdmin)
	require.True(t, closed)

	// 缺密碼
	_, _, err = execute(t, "", "user", "add", "bob")
	require.Error(t, err)

	// DB 連線失敗
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("down") }
	_, _, err = execute(t, "pw\n", "user", "add", "bob")
	require.ErrorContains(t, err, "down")
}

func TestUserPasswd(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("DATABASE_URL", "postgres://env")
	newPgxPool = func(context.Context, string) (database.DB, error) { return &database.FakeDB{}, nil }
	hashPassword = func(string) (string, error) { return "h2", nil }

	var gotName, gotHash string
	updateUserPassword = func(_ context.Context, _ database.DB, name, hash string) error {
		gotName, gotHash = name, hash
		if name == "ghost" {
			return store.ErrUserNotFound
		}
		return nil
	}

	out, _, err := execute(t, "newpass\n", "user", "passwd", "alice")
	require.NoError(t, err)
	require.Contains(t, out, "alice")
	require.Equal(t, "alice", gotName)
	require.Equal(t, "h2", gotHash)

	_, _, err = execute(t, "newpass\n", "user", "passwd", "ghost")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	t.Cleanup(restoreGlobals)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(readBody(r), `"password":"correct"`) {
			_, _ = w.Write([]byte(`{"ok":true,"status":200,"url":"/","access_token":"tok-123"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"status":401,"error":"CredentialsSignin"}`))
	}))
	defer srv.Close()

	out, errOut, err := execute(t, "correct\n", "login", "--server", srv.URL, "-u", "admin")
	require.NoError(t, err)
	require.Equal(t, "tok-123\n", out)
	require.Contains(t, errOut, "continue at /")

	_, _, err = execute(t, "wrong\n", "login", "--server", srv.URL, "-u", "admin")
	require.EqualError(t, err, "Invalid credentials")

	_, _, err = execute(t, "pw\n", "login", "--server", srv.URL)
	require.Error(t, err)
}

func readBody(r *http.Request) string {
	var b bytes.Buffer
	_, _ = b.ReadFrom(r.Body)
	return b.String()
}

func TestMainExit(t *testing.T) {
	t.Cleanup(restoreGlobals)
	args := os.Args
	t.Cleanup(func() { os.Args = args })
	os.Args = []string{"consolectl", "bogus"}

	code := 0
	exitFunc = func(c int) { code = c }
	main()
	require.Equal(t, 1, code)
}

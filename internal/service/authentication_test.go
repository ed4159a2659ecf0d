package service

import (
	"context"
	"errors"
	"testing"

	"modelfang-console/internal/model"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restorePasswordFns() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restorePasswordFns)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))
	require.Error(t, ComparePassword(hash, "other"))

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restorePasswordFns)
	hash, err := HashPassword("correct")
	require.NoError(t, err)
	u := model.User{Name: "admin", PasswordHash: hash}

	require.NoError(t, AuthenticateUser(context.Background(), u, "correct"))
	require.ErrorIs(t, AuthenticateUser(context.Background(), u, "wrong"), ErrInvalidCredentials)
	require.ErrorIs(t, AuthenticateUser(context.Background(), model.User{}, ""), ErrInvalidCredentials)
}

func TestRejectUnknownUser(t *testing.T) {
	t.Cleanup(restorePasswordFns)
	compared := 0
	bcryptCompareHashAndPassword = func(h, p []byte) error {
		compared++
		return bcrypt.CompareHashAndPassword(h, p)
	}
	require.ErrorIs(t, RejectUnknownUser("whatever"), ErrInvalidCredentials)
	require.Equal(t, 1, compared)
}

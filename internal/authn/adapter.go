package authn

import (
	"context"
	"errors"
	"net/http"

	"modelfang-console/internal/loginform"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"
)

// SessionAuthenticator lets a loginform.Form sign in through Local.
// OnSession runs after a session was issued, typically to set the cookie.
type SessionAuthenticator struct {
	Local     *Local
	OnSession func(*model.Session)
}

func (a SessionAuthenticator) SignIn(ctx context.Context, creds loginform.Credentials, _ loginform.Options) (loginform.Result, error) {
	s, err := a.Local.SignIn(ctx, creds.Username, creds.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return loginform.Result{Status: http.StatusUnauthorized, Error: loginform.CodeCredentialsSignin}, nil
	}
	if err != nil {
		return loginform.Result{}, err
	}
	if a.OnSession != nil {
		a.OnSession(s)
	}
	return loginform.Result{OK: true, Status: http.StatusOK, URL: loginform.RootPath, Token: s.Token}, nil
}

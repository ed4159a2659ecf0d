package gate

import (
	"context"
	"net/http"
)

// Verifier checks a session token and returns its claims.
type Verifier[T any] interface {
	Verify(ctx context.Context, token string) (T, error)
}

// TokenFunc extracts session evidence from a request; "" means none.
type TokenFunc func(r *http.Request) string

// SessionAuthorizer allows requests carrying valid session evidence and
// redirects everything else to loginPath.
func SessionAuthorizer[T any](v Verifier[T], token TokenFunc, loginPath string) Authorizer {
	return AuthorizerFunc(func(r *http.Request) Decision {
		tok := token(r)
		if tok == "" {
			return Redirect(loginPath)
		}
		claims, err := v.Verify(r.Context(), tok)
		if err != nil {
			return Redirect(loginPath)
		}
		return AllowAs(claims)
	})
}

package gate

import "net/http"

type verdict int

const (
	invalid verdict = iota
	allow
	redirect
)

// Decision is an Authorizer's answer for one request. Build it with Allow,
// AllowAs or Redirect; the zero value is invalid and answered with a 500.
type Decision struct {
	verdict   verdict
	principal any
	location  string
}

func Allow() Decision { return Decision{verdict: allow} }

// AllowAs forwards the request and exposes principal to handlers.
func AllowAs(principal any) Decision { return Decision{verdict: allow, principal: principal} }

func Redirect(location string) Decision { return Decision{verdict: redirect, location: location} }

func (d Decision) Allowed() bool    { return d.verdict == allow }
func (d Decision) Valid() bool      { return d.verdict != invalid }
func (d Decision) Principal() any   { return d.principal }
func (d Decision) Location() string { return d.location }

// Authorizer decides, per request, whether to forward it or send the client to
// the login path. Implementations run on every gated request and must not
// block beyond a cheap session check.
type Authorizer interface {
	Authorize(r *http.Request) Decision
}

type AuthorizerFunc func(r *http.Request) Decision

func (f AuthorizerFunc) Authorize(r *http.Request) Decision { return f(r) }

// AllowAll forwards everything. It is only wired when GATE_MODE=allow-all.
var AllowAll Authorizer = AuthorizerFunc(func(*http.Request) Decision { return Allow() })

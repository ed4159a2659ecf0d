// Package loginform models the login form's submit flow as an explicit state
// machine: Idle, Submitting, Failed. Rendering is left to the caller; a Form
// only talks to an Authenticator and a Navigator.
package loginform

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// InvalidCredentialsMessage is the only failure text a user ever sees.
const InvalidCredentialsMessage = "Invalid credentials"

// CodeCredentialsSignin is the error code an authenticator reports for a
// rejected username/password pair.
const CodeCredentialsSignin = "CredentialsSignin"

// RootPath is where a successful sign-in navigates.
const RootPath = "/"

var (
	ErrSubmitInFlight     = errors.New("loginform: submit already in flight")
	ErrIncomplete         = errors.New("loginform: username and password are required")
	ErrInvalidCredentials = errors.New("loginform: invalid credentials")
)

// Credentials is the transient form input. It is never persisted.
type Credentials struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Options are passed through to the authenticator.
type Options struct {
	// Redirect asks the authenticator to navigate on its own. The form always
	// sends false and performs navigation itself.
	Redirect bool
}

// Result is the authenticator's answer. A non-empty Error means failure.
type Result struct {
	OK     bool
	Status int
	Error  string
	URL    string
	Token  string
}

// Authenticator performs a credential-based sign-in.
type Authenticator interface {
	SignIn(ctx context.Context, creds Credentials, opts Options) (Result, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, creds Credentials, opts Options) (Result, error)

func (f AuthenticatorFunc) SignIn(ctx context.Context, creds Credentials, opts Options) (Result, error) {
	return f(ctx, creds, opts)
}

// Navigator moves the user after a successful sign-in.
type Navigator interface {
	Push(path string)
	// Refresh asks for server-derived state to be fetched again.
	Refresh()
}

// Phase of the form.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// State is the form's UI state. The message is only carried by Failed.
type State struct {
	Phase   Phase
	message string
}

func failedState(msg string) State { return State{Phase: Failed, message: msg} }

// Loading reports whether the submit control must be disabled.
func (s State) Loading() bool { return s.Phase == Submitting }

// ErrorMessage is the text to display, empty unless the last attempt failed.
func (s State) ErrorMessage() string {
	if s.Phase != Failed {
		return ""
	}
	return s.message
}

// Option configures a Form.
type Option func(*Form)

// WithObserver registers fn to receive every state transition.
func WithObserver(fn func(State)) Option {
	return func(f *Form) { f.observers = append(f.observers, fn) }
}

// Form drives one login form instance.
type Form struct {
	auth      Authenticator
	nav       Navigator
	validate  *validator.Validate
	observers []func(State)

	mu    sync.Mutex
	state State
}

func New(auth Authenticator, nav Navigator, opts ...Option) *Form {
	f := &Form{auth: auth, nav: nav, validate: validator.New()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// State returns the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) set(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
	f.notify(s)
}

func (f *Form) notify(s State) {
	for _, fn := range f.observers {
		fn(s)
	}
}

// Submit runs one sign-in attempt. It returns ErrSubmitInFlight while another
// attempt is running, ErrIncomplete when a field is empty (state untouched),
// ErrInvalidCredentials when the attempt failed for any reason, and nil after
// navigating to RootPath.
func (f *Form) Submit(ctx context.Context, creds Credentials) error {
	if err := f.validate.Struct(creds); err != nil {
		return ErrIncomplete
	}

	f.mu.Lock()
	if f.state.Phase == Submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.state = State{Phase: Submitting}
	f.mu.Unlock()
	f.notify(State{Phase: Submitting})

	res, err := f.auth.SignIn(ctx, creds, Options{Redirect: false})
	if err != nil || res.Error != "" {
		f.set(failedState(InvalidCredentialsMessage))
		return ErrInvalidCredentials
	}

	f.set(State{Phase: Idle})
	f.nav.Push(RootPath)
	f.nav.Refresh()
	return nil
}

package domain

import "context"

type contextKey string

// UserContextKey carries the authenticated session through request contexts.
const UserContextKey contextKey = "user"

// Session is the identity-provider-issued user record. Absence of a session
// is represented by a nil *Session, never by a zero value.
type Session struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// AuthResult is the flat shape every gateway operation resolves to. Err holds
// a normalized provider message; raw SDK errors never cross this boundary.
type AuthResult struct {
	Session *Session `json:"user"`
	Err     string   `json:"error,omitempty"`
}

// Failed reports whether the operation resolved with an error.
func (r AuthResult) Failed() bool {
	return r.Err != ""
}

// AuthGateway is the uniform asynchronous facade over the external identity
// provider. Implementations translate provider-specific failures into
// AuthResult.Err and never panic or return raw transport errors.
type AuthGateway interface {
	SignUp(ctx context.Context, email, password, displayName string) AuthResult
	SignIn(ctx context.Context, email, password string) AuthResult
	// SignInWithProvider completes a federated sign-in: the client performed
	// the provider flow and hands us the resulting ID token to verify.
	SignInWithProvider(ctx context.Context, idToken string) AuthResult
	ResetPassword(ctx context.Context, email string) AuthResult
	SignOut(ctx context.Context, uid string) AuthResult

	// OnSessionChanged registers a listener fired on every session transition.
	// The listener fires at least once during startup, with nil when nobody is
	// signed in, so dependent callers can leave their loading state. The
	// returned func unsubscribes.
	OnSessionChanged(fn func(*Session)) (unsubscribe func())
}

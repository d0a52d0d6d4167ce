package firebaseauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"velora-storefront/internal/domain"

	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAdmin struct {
	createUserRecord *auth.UserRecord
	createUserErr    error
	verifyToken      *auth.Token
	verifyErr        error
	resetLink        string
	resetErr         error
	revokedUID       string
}

func (m *mockAdmin) CreateUser(context.Context, *auth.UserToCreate) (*auth.UserRecord, error) {
	return m.createUserRecord, m.createUserErr
}

func (m *mockAdmin) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return m.verifyToken, m.verifyErr
}

func (m *mockAdmin) PasswordResetLink(context.Context, string) (string, error) {
	return m.resetLink, m.resetErr
}

func (m *mockAdmin) RevokeRefreshTokens(_ context.Context, uid string) error {
	m.revokedUID = uid
	return nil
}

func TestGateway_SignInSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"localId": "uid-1", "email": "a@b.com", "displayName": "Ada"}`))
	}))
	defer srv.Close()

	g := NewWithClient(&mockAdmin{}, "test-key", srv.URL)
	result := g.SignIn(context.Background(), "a@b.com", "secret")

	require.False(t, result.Failed())
	assert.Equal(t, "uid-1", result.Session.UID)
	assert.Equal(t, "Ada", result.Session.DisplayName)
}

func TestGateway_SignInBadCredentialsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "INVALID_PASSWORD"}}`))
	}))
	defer srv.Close()

	g := NewWithClient(&mockAdmin{}, "", srv.URL)
	result := g.SignIn(context.Background(), "a@b.com", "wrong")

	require.True(t, result.Failed())
	assert.Nil(t, result.Session)
	assert.Equal(t, "invalid email or password", result.Err)
}

func TestGateway_SignInProviderDownNormalized(t *testing.T) {
	g := NewWithClient(&mockAdmin{}, "", "http://127.0.0.1:1") // nothing listens here
	result := g.SignIn(context.Background(), "a@b.com", "pw")

	require.True(t, result.Failed())
	assert.Equal(t, "authentication service unavailable", result.Err)
}

func TestGateway_SignInWithProvider(t *testing.T) {
	admin := &mockAdmin{
		verifyToken: &auth.Token{
			UID: "uid-9",
			Claims: map[string]interface{}{
				"email":   "fed@b.com",
				"name":    "Fed User",
				"picture": "https://img.example/p.png",
			},
		},
	}
	g := NewWithClient(admin, "", "")

	result := g.SignInWithProvider(context.Background(), "some-id-token")
	require.False(t, result.Failed())
	assert.Equal(t, "uid-9", result.Session.UID)
	assert.Equal(t, "fed@b.com", result.Session.Email)
	assert.Equal(t, "https://img.example/p.png", result.Session.PhotoURL)
}

func TestGateway_SignInWithProviderBadToken(t *testing.T) {
	g := NewWithClient(&mockAdmin{verifyErr: errors.New("ID token has expired")}, "", "")

	result := g.SignInWithProvider(context.Background(), "stale")
	require.True(t, result.Failed())
	assert.Equal(t, "invalid provider token", result.Err)
}

func TestGateway_OnSessionChangedFiresImmediately(t *testing.T) {
	g := NewWithClient(&mockAdmin{}, "", "")

	var events []*domain.Session
	unsubscribe := g.OnSessionChanged(func(s *domain.Session) {
		events = append(events, s)
	})

	// Fired at least once even with nobody signed in.
	require.Len(t, events, 1)
	assert.Nil(t, events[0])

	g.transition(&domain.Session{UID: "uid-2"})
	require.Len(t, events, 2)
	assert.Equal(t, "uid-2", events[1].UID)

	unsubscribe()
	g.transition(nil)
	assert.Len(t, events, 2)
}

func TestGateway_SignOutRevokesAndNotifies(t *testing.T) {
	admin := &mockAdmin{}
	g := NewWithClient(admin, "", "")
	g.transition(&domain.Session{UID: "uid-3"})

	var last *domain.Session = &domain.Session{UID: "sentinel"}
	g.OnSessionChanged(func(s *domain.Session) { last = s })

	result := g.SignOut(context.Background(), "uid-3")
	require.False(t, result.Failed())
	assert.Equal(t, "uid-3", admin.revokedUID)
	assert.Nil(t, last)
}

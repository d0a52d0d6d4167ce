package firebaseauth

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"velora-storefront/internal/domain"
	"velora-storefront/pkg/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// adminClient is the slice of the Firebase Admin SDK the gateway needs.
// *auth.Client satisfies it; tests substitute a mock.
type adminClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Gateway adapts Firebase into the uniform domain.AuthGateway contract.
// Provider failures are normalized to flat result messages; nothing raw
// escapes this boundary.
type Gateway struct {
	admin     adminClient
	apiKey    string
	signInURL string
	http      *http.Client

	mu        sync.Mutex
	listeners map[int]func(*domain.Session)
	nextID    int
	current   *domain.Session
}

// New builds the gateway from a service-account credentials file.
func New(ctx context.Context, credentialsFile, apiKey, signInURL string) (*Gateway, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "initialize firebase app")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "initialize firebase auth client")
	}
	return NewWithClient(client, apiKey, signInURL), nil
}

// NewWithClient wires an explicit admin client; used by New and by tests.
func NewWithClient(client adminClient, apiKey, signInURL string) *Gateway {
	return &Gateway{
		admin:     client,
		apiKey:    apiKey,
		signInURL: signInURL,
		http:      &http.Client{Timeout: 15 * time.Second},
		listeners: make(map[int]func(*domain.Session)),
	}
}

func (g *Gateway) SignUp(ctx context.Context, email, password, displayName string) domain.AuthResult {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	record, err := g.admin.CreateUser(ctx, params)
	if err != nil {
		logger.Warn().Err(err).Str("email", email).Msg("Sign up failed")
		return domain.AuthResult{Err: normalizeAdminError(err)}
	}

	session := sessionFromRecord(record)
	g.transition(session)
	return domain.AuthResult{Session: session}
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) domain.AuthResult {
	body, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return domain.AuthResult{Err: "authentication request failed"}
	}

	endpoint := g.signInURL
	if g.apiKey != "" {
		endpoint += "?key=" + g.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AuthResult{Err: "authentication request failed"}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("Identity provider unreachable")
		return domain.AuthResult{Err: "authentication service unavailable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return domain.AuthResult{Err: normalizeSignInCode(failure.Error.Message)}
	}

	var success struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"profilePicture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&success); err != nil {
		return domain.AuthResult{Err: "authentication response malformed"}
	}

	session := &domain.Session{
		UID:         success.LocalID,
		Email:       success.Email,
		DisplayName: success.DisplayName,
		PhotoURL:    success.PhotoURL,
	}
	g.transition(session)
	return domain.AuthResult{Session: session}
}

func (g *Gateway) SignInWithProvider(ctx context.Context, idToken string) domain.AuthResult {
	token, err := g.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		logger.Warn().Err(err).Msg("Provider token verification failed")
		return domain.AuthResult{Err: normalizeAdminError(err)}
	}

	session := &domain.Session{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		session.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		session.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		session.PhotoURL = picture
	}

	g.transition(session)
	return domain.AuthResult{Session: session}
}

func (g *Gateway) ResetPassword(ctx context.Context, email string) domain.AuthResult {
	link, err := g.admin.PasswordResetLink(ctx, email)
	if err != nil {
		return domain.AuthResult{Err: normalizeAdminError(err)}
	}

	// Delivery of the link is the mail pipeline's job; the gateway only
	// confirms the provider accepted the request.
	logger.Info().Str("email", email).Str("link", link).Msg("Password reset link issued")
	return domain.AuthResult{}
}

func (g *Gateway) SignOut(ctx context.Context, uid string) domain.AuthResult {
	if uid != "" {
		if err := g.admin.RevokeRefreshTokens(ctx, uid); err != nil {
			logger.Warn().Err(err).Str("uid", uid).Msg("Revoking refresh tokens failed")
			// Local sign-out still proceeds; the provider token will expire.
		}
	}
	g.transition(nil)
	return domain.AuthResult{}
}

// OnSessionChanged registers fn and fires it immediately with the current
// session (possibly nil), so subscribers leave their loading state even when
// nobody is signed in.
func (g *Gateway) OnSessionChanged(fn func(*domain.Session)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	current := g.current
	g.mu.Unlock()

	fn(current)

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *Gateway) transition(session *domain.Session) {
	g.mu.Lock()
	g.current = session
	fns := make([]func(*domain.Session), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

func sessionFromRecord(record *auth.UserRecord) *domain.Session {
	return &domain.Session{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		PhotoURL:    record.PhotoURL,
	}
}

// normalizeAdminError flattens Admin SDK failures into user-presentable
// messages without leaking SDK internals.
func normalizeAdminError(err error) string {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return "email already in use"
	case strings.Contains(err.Error(), "no user record"):
		return "account not found"
	case strings.Contains(err.Error(), "ID token"):
		return "invalid provider token"
	default:
		return fmt.Sprintf("authentication failed: %s", firstLine(err.Error()))
	}
}

// normalizeSignInCode maps Identity Toolkit error codes to flat messages.
func normalizeSignInCode(code string) string {
	switch {
	case code == "EMAIL_NOT_FOUND", code == "INVALID_PASSWORD",
		strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"):
		return "invalid email or password"
	case code == "USER_DISABLED":
		return "account disabled"
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return "too many attempts, try again later"
	case code == "":
		return "authentication failed"
	default:
		return "authentication failed: " + code
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

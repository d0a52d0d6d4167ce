package usecase

import (
	"context"
	"log/slog"

	"velora-storefront/config"
	"velora-storefront/internal/domain"
	"velora-storefront/pkg/utils"
)

// AuthUsecase fronts the identity gateway and mints the API's own access
// tokens. Gateway failures surface as AuthResult.Err, never as Go errors, so
// callers branch on one shape regardless of what the provider did.
type AuthUsecase struct {
	gateway domain.AuthGateway
	cfg     *config.Config
}

func NewAuthUsecase(gateway domain.AuthGateway, cfg *config.Config) *AuthUsecase {
	return &AuthUsecase{
		gateway: gateway,
		cfg:     cfg,
	}
}

func (u *AuthUsecase) SignUp(ctx context.Context, email, password, displayName string) (domain.AuthResult, string) {
	res := u.gateway.SignUp(ctx, email, password, displayName)
	if res.Failed() {
		slog.Info("Usecase: SignUp rejected", "email", email, "reason", res.Err)
		return res, ""
	}
	return res, u.issueToken(res.Session)
}

func (u *AuthUsecase) SignIn(ctx context.Context, email, password string) (domain.AuthResult, string) {
	res := u.gateway.SignIn(ctx, email, password)
	if res.Failed() {
		slog.Info("Usecase: SignIn rejected", "email", email, "reason", res.Err)
		return res, ""
	}
	slog.Info("Usecase: SignIn", "uid", res.Session.UID)
	return res, u.issueToken(res.Session)
}

func (u *AuthUsecase) SignInWithProvider(ctx context.Context, idToken string) (domain.AuthResult, string) {
	res := u.gateway.SignInWithProvider(ctx, idToken)
	if res.Failed() {
		slog.Info("Usecase: provider sign-in rejected", "reason", res.Err)
		return res, ""
	}
	slog.Info("Usecase: provider sign-in", "uid", res.Session.UID)
	return res, u.issueToken(res.Session)
}

func (u *AuthUsecase) ResetPassword(ctx context.Context, email string) domain.AuthResult {
	return u.gateway.ResetPassword(ctx, email)
}

func (u *AuthUsecase) SignOut(ctx context.Context, uid string) domain.AuthResult {
	return u.gateway.SignOut(ctx, uid)
}

// WatchSessions logs session transitions for the lifetime of the process.
// Returns the unsubscribe func for shutdown.
func (u *AuthUsecase) WatchSessions() func() {
	return u.gateway.OnSessionChanged(func(s *domain.Session) {
		if s == nil {
			slog.Info("Session transition: signed out")
			return
		}
		slog.Info("Session transition: signed in", "uid", s.UID, "email", s.Email)
	})
}

func (u *AuthUsecase) issueToken(s *domain.Session) string {
	token, err := utils.GenerateJWT(s.UID, s.Email, s.DisplayName, u.cfg.AccessTokenExpiry)
	if err != nil {
		slog.Error("Usecase: token generation failed", "uid", s.UID, "error", err)
		return ""
	}
	return token
}

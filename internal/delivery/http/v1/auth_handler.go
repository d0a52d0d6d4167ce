package v1

import (
	"net/http"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/usecase"
	"velora-storefront/pkg/utils"

	"github.com/goccy/go-json"
)

type AuthHandler struct {
	authUC *usecase.AuthUsecase
}

func NewAuthHandler(authUC *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

type credentialsReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type authResponse struct {
	User        *domain.Session `json:"user"`
	Error       string          `json:"error,omitempty"`
	AccessToken string          `json:"accessToken,omitempty"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, token := h.authUC.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if res.Failed() {
		utils.WriteJSON(w, http.StatusBadRequest, authResponse{Error: res.Err})
		return
	}

	h.setSessionCookie(w, token)
	utils.WriteJSON(w, http.StatusCreated, authResponse{User: res.Session, AccessToken: token})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	res, token := h.authUC.SignIn(r.Context(), req.Email, req.Password)
	if res.Failed() {
		utils.WriteJSON(w, http.StatusUnauthorized, authResponse{Error: res.Err})
		return
	}

	h.setSessionCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, authResponse{User: res.Session, AccessToken: token})
}

func (h *AuthHandler) SignInWithProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		utils.WriteError(w, http.StatusBadRequest, "idToken is required")
		return
	}

	res, token := h.authUC.SignInWithProvider(r.Context(), req.IDToken)
	if res.Failed() {
		utils.WriteJSON(w, http.StatusUnauthorized, authResponse{Error: res.Err})
		return
	}

	h.setSessionCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, authResponse{User: res.Session, AccessToken: token})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		utils.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}

	res := h.authUC.ResetPassword(r.Context(), req.Email)
	if res.Failed() {
		utils.WriteJSON(w, http.StatusBadRequest, authResponse{Error: res.Err})
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Password reset email sent")
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res := h.authUC.SignOut(r.Context(), session.UID)
	// Clear the cookie regardless: the client is signing out either way.
	http.SetCookie(w, &http.Cookie{Name: "accessToken", MaxAge: -1, Path: "/"})
	if res.Failed() {
		utils.WriteJSON(w, http.StatusInternalServerError, authResponse{Error: res.Err})
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Signed out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.WriteJSON(w, http.StatusOK, authResponse{User: session})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	if token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   24 * 60 * 60,
	})
}

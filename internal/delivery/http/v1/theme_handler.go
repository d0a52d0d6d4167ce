package v1

import (
	"net/http"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/store"
	"velora-storefront/pkg/utils"

	"github.com/goccy/go-json"
)

type ThemeHandler struct {
	store *store.Store
}

func NewThemeHandler(st *store.Store) *ThemeHandler {
	return &ThemeHandler{store: st}
}

func (h *ThemeHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.store.Ensure(r.Context(), session.UID)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"theme": h.store.Theme(session.UID)})
}

func (h *ThemeHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	h.store.Ensure(r.Context(), session.UID)
	if err := h.store.SetTheme(session.UID, req.Theme); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid theme preference")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

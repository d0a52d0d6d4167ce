package v1

import (
	"errors"
	"net/http"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/store"
	"velora-storefront/internal/usecase"
	"velora-storefront/pkg/utils"

	"github.com/goccy/go-json"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(cartUC *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: cartUC}
}

func (h *CartHandler) GetMyCart(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.cartUC.GetMyCart(r.Context(), session.UID))
}

type addToCartReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ProductID == 0 {
		utils.WriteError(w, http.StatusBadRequest, "productId is required")
		return
	}

	cart, err := h.cartUC.AddToCart(r.Context(), session.UID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrQuantityLimit) {
			utils.WriteError(w, http.StatusUnprocessableEntity, "Quantity exceeds the allowed maximum")
			return
		}
		utils.WriteError(w, http.StatusBadGateway, "Failed to add to cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cart)
}

type updateQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	lineID := r.PathValue("lineId")
	var req updateQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	cart, err := h.cartUC.UpdateQuantity(r.Context(), session.UID, lineID, req.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrQuantityLimit) {
			utils.WriteError(w, http.StatusUnprocessableEntity, "Quantity exceeds the allowed maximum")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	lineID := r.PathValue("lineId")
	utils.WriteJSON(w, http.StatusOK, h.cartUC.RemoveFromCart(r.Context(), session.UID, lineID))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.cartUC.ClearCart(r.Context(), session.UID))
}

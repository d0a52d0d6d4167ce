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

type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	store      *store.Store
}

func NewCheckoutHandler(checkoutUC *usecase.CheckoutUsecase, st *store.Store) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: checkoutUC, store: st}
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req usecase.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.checkoutUC.PlaceOrder(r.Context(), session.UID, req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyCart):
			utils.WriteError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, usecase.ErrCheckoutInFlight):
			utils.WriteError(w, http.StatusConflict, "An order attempt is already in progress")
		case errors.Is(err, usecase.ErrUnknownPaymentMethod):
			utils.WriteError(w, http.StatusBadRequest, "Unknown payment method")
		default:
			if result != nil && result.State == domain.CheckoutStateFailed {
				utils.WriteJSON(w, http.StatusBadGateway, result)
				return
			}
			utils.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	status := http.StatusCreated
	if result.State == domain.CheckoutStateAwaitingPayment {
		status = http.StatusAccepted
	}
	utils.WriteJSON(w, status, result)
}

func (h *CheckoutHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.checkoutUC.GetMyOrders(r.Context(), session.UID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.checkoutUC.GetOrder(r.Context(), session.UID, r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	if order == nil {
		utils.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// GetSavedBilling returns the owner's saved contact details for form prefill.
func (h *CheckoutHandler) GetSavedBilling(w http.ResponseWriter, r *http.Request) {
	session, ok := r.Context().Value(domain.UserContextKey).(*domain.Session)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.store.Ensure(r.Context(), session.UID)
	billing := h.store.SavedBilling(session.UID)
	if billing == nil {
		utils.WriteError(w, http.StatusNotFound, "No saved billing details")
		return
	}
	utils.WriteJSON(w, http.StatusOK, billing)
}

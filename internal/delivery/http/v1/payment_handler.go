package v1

import (
	"errors"
	"net/http"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/infrastructure/payment"
	"velora-storefront/internal/usecase"
	"velora-storefront/pkg/utils"

	"github.com/goccy/go-json"
)

type PaymentHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	verifier   domain.PaymentVerifier
}

func NewPaymentHandler(checkoutUC *usecase.CheckoutUsecase, verifier domain.PaymentVerifier) *PaymentHandler {
	return &PaymentHandler{checkoutUC: checkoutUC, verifier: verifier}
}

type paymentCallbackReq struct {
	TxRef         string `json:"tx_ref"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	FlwRef        string `json:"flw_ref"`
	Message       string `json:"message"`
}

// Callback receives the widget's verdict for an open payment attempt and
// responds with the terminal state of the order attempt.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req paymentCallbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.TxRef == "" {
		utils.WriteError(w, http.StatusBadRequest, "tx_ref is required")
		return
	}

	result, err := h.checkoutUC.HandlePaymentCallback(r.Context(), req.TxRef, domain.PaymentOutcome{
		Status:        req.Status,
		TransactionID: req.TransactionID,
		FlwRef:        req.FlwRef,
		Message:       req.Message,
	})
	if err != nil {
		if errors.Is(err, payment.ErrUnknownAttempt) {
			utils.WriteError(w, http.StatusNotFound, "Unknown transaction reference")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to process payment callback")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

type verifyPaymentReq struct {
	TransactionID string `json:"transaction_id"`
	FlwRef        string `json:"flw_ref"`
}

// Verify re-checks a transaction with the payment provider without touching
// any order attempt.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.TransactionID == "" || req.FlwRef == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing transaction_id or flw_ref")
		return
	}

	result, err := h.verifier.Verify(r.Context(), req.TransactionID, req.FlwRef)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			utils.WriteError(w, http.StatusInternalServerError, "Payment verification is not configured")
			return
		}
		utils.WriteError(w, http.StatusBadGateway, "Payment verification failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

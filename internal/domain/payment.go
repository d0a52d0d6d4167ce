package domain

import (
	"context"

	"github.com/goccy/go-json"
)

// Outcome statuses reported by the external payment widget.
const (
	PaymentOutcomeSuccess   = "success"
	PaymentOutcomeError     = "error"
	PaymentOutcomeCancelled = "cancelled"
)

// ChargeRequest carries what the external widget needs to collect a payment.
type ChargeRequest struct {
	TxRef         string  `json:"tx_ref"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
}

// PaymentOutcome is the widget's callback translated into a value. Exactly one
// outcome resolves each attempt: success, error, or close-without-completing.
type PaymentOutcome struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	FlwRef        string `json:"flw_ref"`
	Message       string `json:"message,omitempty"`
}

// VerificationResult is the normalized answer of the server-side verification
// call. Status is "success" or "failed"; Data carries the provider's record.
type VerificationResult struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (v VerificationResult) Succeeded() bool {
	return v.Status == "success"
}

// PaymentVerifier re-confirms a client-reported payment success with the
// provider before fulfillment. Client callbacks are never authoritative.
type PaymentVerifier interface {
	Verify(ctx context.Context, transactionID, flwRef string) (*VerificationResult, error)
}

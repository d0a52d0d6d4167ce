package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"velora-storefront/internal/domain"
	"velora-storefront/pkg/logger"

	"github.com/goccy/go-json"
)

// ErrNotConfigured is returned when verification is attempted without a
// server-side secret credential.
var ErrNotConfigured = errors.New("payment: secret key not configured")

// Verifier re-confirms client-reported payments against the Flutterwave
// transactions API using the server-side secret.
type Verifier struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewVerifier(baseURL, secretKey string, timeout time.Duration) *Verifier {
	return &Verifier{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// Verify fetches the provider's record for a transaction and normalizes it to
// success/failed. A success reported by the widget but not confirmed here is
// treated as failed.
func (v *Verifier) Verify(ctx context.Context, transactionID, flwRef string) (*domain.VerificationResult, error) {
	if v.secretKey == "" {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/v3/transactions/%s/verify", v.baseURL, transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verification request failed: status %d", resp.StatusCode)
	}

	// Keep the raw provider record for the caller, decode only the fields we
	// branch on.
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode verification response: %w", err)
	}

	var record struct {
		Status string `json:"status"`
		FlwRef string `json:"flw_ref"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &record); err != nil {
			return nil, fmt.Errorf("decode verification data: %w", err)
		}
	}

	if envelope.Status == "success" && record.Status == "successful" {
		if flwRef != "" && record.FlwRef != "" && record.FlwRef != flwRef {
			logger.Warn().
				Str("transaction_id", transactionID).
				Str("expected_ref", flwRef).
				Str("provider_ref", record.FlwRef).
				Msg("Provider reference mismatch")
			return &domain.VerificationResult{
				Status:  "failed",
				Message: "Payment verification failed",
				Data:    envelope.Data,
			}, nil
		}
		return &domain.VerificationResult{
			Status:  "success",
			Message: "Payment verified successfully",
			Data:    envelope.Data,
		}, nil
	}

	return &domain.VerificationResult{
		Status:  "failed",
		Message: "Payment verification failed",
		Data:    envelope.Data,
	}, nil
}

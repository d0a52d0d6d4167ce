package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"velora-storefront/internal/domain"
	"velora-storefront/internal/infrastructure/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	result *domain.VerificationResult
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, transactionID, flwRef string) (*domain.VerificationResult, error) {
	return s.result, s.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestVerifyRequiresTransactionIDAndRef(t *testing.T) {
	h := NewPaymentHandler(nil, &stubVerifier{})

	rec := postJSON(t, h.Verify, `{"flw_ref":"FLW-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Verify, `{"transaction_id":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyUnconfiguredProvider(t *testing.T) {
	h := NewPaymentHandler(nil, &stubVerifier{err: payment.ErrNotConfigured})

	rec := postJSON(t, h.Verify, `{"transaction_id":"123","flw_ref":"FLW-1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyReturnsProviderVerdict(t *testing.T) {
	h := NewPaymentHandler(nil, &stubVerifier{result: &domain.VerificationResult{Status: "success"}})

	rec := postJSON(t, h.Verify, `{"transaction_id":"123","flw_ref":"FLW-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success"`)
}

func TestCallbackRequiresTxRef(t *testing.T) {
	h := NewPaymentHandler(nil, &stubVerifier{})

	rec := postJSON(t, h.Callback, `{"status":"success"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

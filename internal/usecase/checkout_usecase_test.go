package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"velora-storefront/config"
	"velora-storefront/internal/domain"
	"velora-storefront/internal/infrastructure/kv"
	"velora-storefront/internal/infrastructure/payment"
	"velora-storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	mu         sync.Mutex
	orders     []domain.Order
	failCreate bool
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errors.New("db unavailable")
	}
	m.orders = append(m.orders, *order)
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (m *mockOrderRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type mockVerifier struct {
	mu      sync.Mutex
	result  *domain.VerificationResult
	err     error
	lastTxn string
}

func (m *mockVerifier) Verify(ctx context.Context, transactionID, flwRef string) (*domain.VerificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTxn = transactionID
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type checkoutFixture struct {
	usecase  *CheckoutUsecase
	store    *store.Store
	orders   *mockOrderRepo
	verifier *mockVerifier
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	st := store.New(kv.NewMemoryStore(), 1000)
	orders := &mockOrderRepo{}
	verifier := &mockVerifier{result: &domain.VerificationResult{Status: "success"}}
	cfg := &config.Config{Currency: "USD", VerifyTimeout: time.Second}
	return &checkoutFixture{
		usecase:  NewCheckoutUsecase(st, orders, verifier, payment.NewRegistry(), cfg),
		store:    st,
		orders:   orders,
		verifier: verifier,
	}
}

func validBilling() domain.BillingDetails {
	return domain.BillingDetails{
		FirstName:     "Ada",
		StreetAddress: "1 Engine St",
		TownCity:      "London",
		PhoneNumber:   "0170000000",
		EmailAddress:  "ada@example.com",
	}
}

func seedCart(t *testing.T, st *store.Store, userID string) domain.Cart {
	t.Helper()
	_, err := st.AddToCart(userID, domain.Product{ID: 1, Title: "Lamp", Price: 25}, 2)
	require.NoError(t, err)
	cart, err := st.AddToCart(userID, domain.Product{ID: 2, Title: "Desk", Price: 100}, 1)
	require.NoError(t, err)
	return cart
}

func TestPlaceOrderCashCompletes(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	res, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateCompleted, res.State)
	require.NotNil(t, res.Order)
	assert.Equal(t, domain.PaymentStatusPending, res.Order.PaymentStatus)
	assert.InDelta(t, 150.0, res.Order.Total, 1e-9)
	assert.Len(t, res.Order.Items, 2)

	assert.Empty(t, f.store.Cart("u1").Items, "completion must clear the cart")
	assert.Equal(t, 1, f.orders.count())
}

func TestPlaceOrderCashFailureRetainsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.orders.failCreate = true
	seedCart(t, f.store, "u1")

	res, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, domain.CheckoutStateFailed, res.State)
	assert.Equal(t, 3, f.store.Cart("u1").ItemCount, "failure must retain the cart")

	// The guard is released, so the owner can retry immediately.
	f.orders.failCreate = false
	res, err = f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateCompleted, res.State)
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderRejectsIncompleteBilling(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	billing := validBilling()
	billing.PhoneNumber = ""
	_, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       billing,
		PaymentMethod: domain.PaymentMethodCash,
	})
	assert.Error(t, err)

	billing = validBilling()
	billing.EmailAddress = "not-an-email"
	_, err = f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       billing,
		PaymentMethod: domain.PaymentMethodCash,
	})
	assert.Error(t, err)

	assert.Equal(t, 0, f.orders.count())
	assert.Equal(t, 3, f.store.Cart("u1").ItemCount)
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	_, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: "barter",
	})
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}

func TestPlaceOrderBankSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	res, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodBank,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateAwaitingPayment, res.State)
	require.NotEmpty(t, res.TxRef)
	require.NotNil(t, res.Charge)
	assert.InDelta(t, 150.0, res.Charge.Amount, 1e-9)
	assert.Equal(t, "USD", res.Charge.Currency)
	assert.Equal(t, "Ada", res.Charge.CustomerName)

	assert.Equal(t, 3, f.store.Cart("u1").ItemCount, "cart untouched while awaiting payment")

	final, err := f.usecase.HandlePaymentCallback(context.Background(), res.TxRef, domain.PaymentOutcome{
		Status:        domain.PaymentOutcomeSuccess,
		TransactionID: "12345",
		FlwRef:        "FLW-9",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateCompleted, final.State)
	require.NotNil(t, final.Order)
	assert.Equal(t, domain.PaymentStatusPaid, final.Order.PaymentStatus)
	require.NotNil(t, final.Order.PaymentRef)
	assert.Equal(t, "FLW-9", *final.Order.PaymentRef)

	assert.Equal(t, "12345", f.verifier.lastTxn)
	assert.Empty(t, f.store.Cart("u1").Items)
	assert.Equal(t, 1, f.orders.count())
}

func TestPlaceOrderBankCancelledRetainsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	res, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodBank,
	})
	require.NoError(t, err)

	final, err := f.usecase.HandlePaymentCallback(context.Background(), res.TxRef, domain.PaymentOutcome{
		Status: domain.PaymentOutcomeCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateFailed, final.State)
	assert.Nil(t, final.Order)

	assert.Equal(t, 3, f.store.Cart("u1").ItemCount, "cancelled payment must retain the cart")
	assert.Equal(t, 0, f.orders.count())
}

func TestPlaceOrderBankVerificationRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	f.verifier.result = &domain.VerificationResult{Status: "failed", Message: "Payment verification failed"}
	seedCart(t, f.store, "u1")

	res, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodBank,
	})
	require.NoError(t, err)

	final, err := f.usecase.HandlePaymentCallback(context.Background(), res.TxRef, domain.PaymentOutcome{
		Status:        domain.PaymentOutcomeSuccess,
		TransactionID: "12345",
		FlwRef:        "FLW-9",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateFailed, final.State)
	assert.Equal(t, "Payment verification failed", final.Message)
	assert.Equal(t, 0, f.orders.count(), "unverified payment must not place an order")
	assert.Equal(t, 3, f.store.Cart("u1").ItemCount)
}

func TestPlaceOrderGuardsConcurrentAttempts(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	res, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodBank,
	})
	require.NoError(t, err)

	_, err = f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrCheckoutInFlight)

	// A different owner is unaffected.
	seedCart(t, f.store, "u2")
	_, err = f.usecase.PlaceOrder(context.Background(), "u2", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	assert.NoError(t, err)

	// Resolving the first attempt releases the guard.
	_, err = f.usecase.HandlePaymentCallback(context.Background(), res.TxRef, domain.PaymentOutcome{
		Status: domain.PaymentOutcomeCancelled,
	})
	require.NoError(t, err)
	_, err = f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	assert.NoError(t, err)
}

func TestHandlePaymentCallbackUnknownRef(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.usecase.HandlePaymentCallback(context.Background(), "tx_missing", domain.PaymentOutcome{
		Status: domain.PaymentOutcomeSuccess,
	})
	assert.ErrorIs(t, err, payment.ErrUnknownAttempt)
}

func TestPlaceOrderSavesBillingOnRequest(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	billing := validBilling()
	billing.SaveInfo = true
	_, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       billing,
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.NoError(t, err)

	saved := f.store.SavedBilling("u1")
	require.NotNil(t, saved)
	assert.Equal(t, "Ada", saved.FirstName)
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	f := newCheckoutFixture(t)
	seedCart(t, f.store, "u1")

	res, err := f.usecase.PlaceOrder(context.Background(), "u1", PlaceOrderRequest{
		Billing:       validBilling(),
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.NoError(t, err)

	order, err := f.usecase.GetOrder(context.Background(), "u1", res.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, order)

	order, err = f.usecase.GetOrder(context.Background(), "u2", res.Order.ID)
	require.NoError(t, err)
	assert.Nil(t, order, "foreign orders must be invisible")
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"velora-storefront/config"
	"velora-storefront/internal/domain"
	"velora-storefront/internal/infrastructure/payment"
	"velora-storefront/internal/store"
	"velora-storefront/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyCart            = errors.New("checkout: cart is empty")
	ErrCheckoutInFlight     = errors.New("checkout: an order attempt is already in progress")
	ErrUnknownPaymentMethod = errors.New("checkout: unknown payment method")
)

// PlaceOrderRequest is the checkout submission: contact details plus the
// chosen payment method.
type PlaceOrderRequest struct {
	Billing       domain.BillingDetails `json:"billing"`
	PaymentMethod string                `json:"paymentMethod"`
}

// CheckoutResult reports where the order attempt ended up. For bank payments
// the first result carries AWAITING_EXTERNAL_PAYMENT plus the charge the
// widget needs; the terminal result arrives through the payment callback.
type CheckoutResult struct {
	State   domain.CheckoutState  `json:"state"`
	Order   *domain.Order         `json:"order,omitempty"`
	TxRef   string                `json:"txRef,omitempty"`
	Charge  *domain.ChargeRequest `json:"charge,omitempty"`
	Message string                `json:"message,omitempty"`
}

// CheckoutUsecase drives the order attempt state machine. One attempt per
// owner at a time; the cart is cleared only when an attempt completes, so a
// failure at any stage leaves the cart intact for another try.
type CheckoutUsecase struct {
	store    *store.Store
	orders   domain.OrderRepository
	verifier domain.PaymentVerifier
	registry *payment.Registry
	validate *validator.Validate
	cfg      *config.Config

	mu       sync.Mutex
	inflight map[string]bool
}

func NewCheckoutUsecase(st *store.Store, orders domain.OrderRepository, verifier domain.PaymentVerifier, registry *payment.Registry, cfg *config.Config) *CheckoutUsecase {
	return &CheckoutUsecase{
		store:    st,
		orders:   orders,
		verifier: verifier,
		registry: registry,
		validate: validator.New(),
		cfg:      cfg,
		inflight: make(map[string]bool),
	}
}

// PlaceOrder starts an order attempt from the owner's current cart. Cash
// orders resolve synchronously; bank orders return awaiting the external
// widget, whose callback drives the rest of the machine.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*CheckoutResult, error) {
	u.store.Ensure(ctx, userID)

	if !u.acquire(userID) {
		return nil, ErrCheckoutInFlight
	}

	state := u.advance(userID, domain.CheckoutStateEditing, domain.CheckoutStateValidating)

	if err := u.validate.Struct(req.Billing); err != nil {
		u.release(userID)
		u.advance(userID, state, domain.CheckoutStateEditing)
		return nil, fmt.Errorf("invalid billing details: %w", err)
	}

	cart := u.store.Cart(userID)
	if len(cart.Items) == 0 {
		u.release(userID)
		u.advance(userID, state, domain.CheckoutStateEditing)
		return nil, ErrEmptyCart
	}

	if req.Billing.SaveInfo {
		u.store.SaveBilling(userID, req.Billing)
	}

	switch req.PaymentMethod {
	case domain.PaymentMethodCash:
		return u.placeCashOrder(ctx, userID, state, cart, req.Billing)
	case domain.PaymentMethodBank:
		return u.startBankPayment(userID, state, cart, req.Billing), nil
	default:
		u.release(userID)
		u.advance(userID, state, domain.CheckoutStateEditing)
		return nil, ErrUnknownPaymentMethod
	}
}

func (u *CheckoutUsecase) placeCashOrder(ctx context.Context, userID string, state domain.CheckoutState, cart domain.Cart, billing domain.BillingDetails) (*CheckoutResult, error) {
	defer u.release(userID)

	state = u.advance(userID, state, domain.CheckoutStatePlacingCashOrder)

	order := u.buildOrder(userID, cart, billing, domain.PaymentMethodCash, domain.PaymentStatusPending, nil)
	if err := u.orders.CreateOrder(ctx, order); err != nil {
		slog.Error("Usecase: Checkout - cash order persist failed", "user_id", userID, "error", err)
		u.advance(userID, state, domain.CheckoutStateFailed)
		return &CheckoutResult{
			State:   domain.CheckoutStateFailed,
			Message: "Failed to place order",
		}, fmt.Errorf("failed to place order: %w", err)
	}

	u.store.ClearCart(userID)
	u.advance(userID, state, domain.CheckoutStateCompleted)
	slog.Info("Usecase: Checkout - cash order placed", "user_id", userID, "order_id", order.ID, "total", utils.FormatPrice(order.Total))
	return &CheckoutResult{
		State: domain.CheckoutStateCompleted,
		Order: order,
	}, nil
}

func (u *CheckoutUsecase) startBankPayment(userID string, state domain.CheckoutState, cart domain.Cart, billing domain.BillingDetails) *CheckoutResult {
	state = u.advance(userID, state, domain.CheckoutStateAwaitingPayment)

	attempt := u.registry.Open(domain.ChargeRequest{
		TxRef:         utils.GenerateTxRef(),
		Amount:        cart.Total,
		Currency:      u.cfg.Currency,
		CustomerName:  billing.FullName(),
		CustomerEmail: billing.EmailAddress,
		CustomerPhone: billing.PhoneNumber,
	})

	go u.awaitPayment(attempt, userID, state, cart, billing)

	slog.Info("Usecase: Checkout - awaiting external payment", "user_id", userID, "tx_ref", attempt.Request.TxRef, "amount", cart.Total)
	return &CheckoutResult{
		State:  domain.CheckoutStateAwaitingPayment,
		TxRef:  attempt.Request.TxRef,
		Charge: &attempt.Request,
	}
}

// awaitPayment runs the tail of a bank attempt: widget outcome, provider
// verification, then order placement. The cart survives every failure path.
func (u *CheckoutUsecase) awaitPayment(attempt *payment.Attempt, userID string, state domain.CheckoutState, cart domain.Cart, billing domain.BillingDetails) {
	txRef := attempt.Request.TxRef
	outcome := <-attempt.Outcome()

	if outcome.Status != domain.PaymentOutcomeSuccess {
		msg := "Payment was not completed"
		if outcome.Status == domain.PaymentOutcomeCancelled {
			msg = "Payment was cancelled"
		}
		slog.Info("Usecase: Checkout - payment not completed", "user_id", userID, "tx_ref", txRef, "status", outcome.Status)
		u.failAttempt(attempt, userID, state, msg)
		return
	}

	state = u.advance(userID, state, domain.CheckoutStateVerifying)

	ctx, cancel := context.WithTimeout(context.Background(), u.cfg.VerifyTimeout)
	defer cancel()

	result, err := u.verifier.Verify(ctx, outcome.TransactionID, outcome.FlwRef)
	if err != nil {
		slog.Error("Usecase: Checkout - verification call failed", "user_id", userID, "tx_ref", txRef, "error", err)
		u.failAttempt(attempt, userID, state, "Payment verification failed")
		return
	}
	if !result.Succeeded() {
		slog.Info("Usecase: Checkout - verification rejected payment", "user_id", userID, "tx_ref", txRef)
		u.failAttempt(attempt, userID, state, result.Message)
		return
	}

	flwRef := outcome.FlwRef
	order := u.buildOrder(userID, cart, billing, domain.PaymentMethodBank, domain.PaymentStatusPaid, &flwRef)
	if err := u.orders.CreateOrder(ctx, order); err != nil {
		slog.Error("Usecase: Checkout - bank order persist failed", "user_id", userID, "tx_ref", txRef, "error", err)
		u.failAttempt(attempt, userID, state, "Failed to place order")
		return
	}

	u.store.ClearCart(userID)
	u.advance(userID, state, domain.CheckoutStateCompleted)
	slog.Info("Usecase: Checkout - bank order placed", "user_id", userID, "order_id", order.ID, "total", utils.FormatPrice(order.Total), "flw_ref", flwRef)

	// Release before Finish so callers woken by Done() can start a new attempt.
	u.registry.Close(txRef)
	u.release(userID)
	attempt.Finish(&CheckoutResult{
		State: domain.CheckoutStateCompleted,
		Order: order,
	})
}

func (u *CheckoutUsecase) failAttempt(attempt *payment.Attempt, userID string, state domain.CheckoutState, message string) {
	u.advance(userID, state, domain.CheckoutStateFailed)
	u.registry.Close(attempt.Request.TxRef)
	u.release(userID)
	attempt.Finish(&CheckoutResult{
		State:   domain.CheckoutStateFailed,
		Message: message,
	})
}

// HandlePaymentCallback resolves the widget's verdict for an open attempt and
// waits for the attempt to reach a terminal state.
func (u *CheckoutUsecase) HandlePaymentCallback(ctx context.Context, txRef string, outcome domain.PaymentOutcome) (*CheckoutResult, error) {
	attempt, err := u.registry.Lookup(txRef)
	if err != nil {
		return nil, err
	}

	attempt.Resolve(outcome)

	select {
	case <-attempt.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	result, ok := attempt.Result().(*CheckoutResult)
	if !ok {
		return nil, fmt.Errorf("checkout: attempt %s finished without a result", txRef)
	}
	return result, nil
}

func (u *CheckoutUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return u.orders.GetByOwnerID(ctx, userID)
}

func (u *CheckoutUsecase) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.OwnerID != userID {
		return nil, nil
	}
	return order, nil
}

func (u *CheckoutUsecase) buildOrder(userID string, cart domain.Cart, billing domain.BillingDetails, method, paymentStatus string, paymentRef *string) *domain.Order {
	orderID := utils.GenerateUUID()
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, domain.OrderItem{
			ID:        utils.GenerateUUID(),
			OrderID:   orderID,
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}
	return &domain.Order{
		ID:            orderID,
		OwnerID:       userID,
		Items:         items,
		ItemCount:     cart.ItemCount,
		Total:         cart.Total,
		Currency:      u.cfg.Currency,
		PaymentMethod: method,
		PaymentStatus: paymentStatus,
		PaymentRef:    paymentRef,
		Status:        domain.OrderStatusPlaced,
		Billing:       billing,
		CreatedAt:     time.Now(),
	}
}

func (u *CheckoutUsecase) advance(userID string, from, to domain.CheckoutState) domain.CheckoutState {
	if !from.CanTransitionTo(to) {
		slog.Error("Usecase: Checkout - illegal state transition", "user_id", userID, "from", from.String(), "to", to.String())
		return from
	}
	slog.Debug("Usecase: Checkout - state transition", "user_id", userID, "from", from.String(), "to", to.String())
	return to
}

func (u *CheckoutUsecase) acquire(userID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inflight[userID] {
		return false
	}
	u.inflight[userID] = true
	return true
}

func (u *CheckoutUsecase) release(userID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inflight, userID)
}

package domain

// CheckoutState models one order attempt. Failed returns control to Editing;
// Completed is the only state in which the cart is cleared.
type CheckoutState string

const (
	CheckoutStateEditing          CheckoutState = "EDITING"
	CheckoutStateValidating       CheckoutState = "VALIDATING"
	CheckoutStateAwaitingPayment  CheckoutState = "AWAITING_EXTERNAL_PAYMENT"
	CheckoutStatePlacingCashOrder CheckoutState = "PLACING_CASH_ORDER"
	CheckoutStateVerifying        CheckoutState = "VERIFYING"
	CheckoutStateCompleted        CheckoutState = "COMPLETED"
	CheckoutStateFailed           CheckoutState = "FAILED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateCompleted || s == CheckoutStateFailed
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateEditing:          {CheckoutStateValidating},
	CheckoutStateValidating:       {CheckoutStateAwaitingPayment, CheckoutStatePlacingCashOrder, CheckoutStateEditing},
	CheckoutStateAwaitingPayment:  {CheckoutStateVerifying, CheckoutStateFailed},
	CheckoutStatePlacingCashOrder: {CheckoutStateCompleted, CheckoutStateFailed},
	CheckoutStateVerifying:        {CheckoutStateCompleted, CheckoutStateFailed},
	CheckoutStateFailed:           {CheckoutStateEditing},
}

// CanTransitionTo reports whether moving from s to next is a legal step of the
// order attempt machine.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment methods accepted at checkout.
const (
	PaymentMethodCash = "cash"
	PaymentMethodBank = "bank"
)

package domain

import (
	"time"
)

// CheckoutStep is one stage of the linear (with backtracking) checkout flow.
type CheckoutStep string

const (
	StepShipping CheckoutStep = "shipping"
	StepPayment  CheckoutStep = "payment"
	StepReview   CheckoutStep = "review"
	StepComplete CheckoutStep = "complete"
)

// String implements fmt.Stringer for logging.
func (s CheckoutStep) String() string {
	return string(s)
}

// IsTerminal reports whether the checkout session is finished.
func (s CheckoutStep) IsTerminal() bool {
	return s == StepComplete
}

// PaymentMethod enumerates the supported payment options.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodPayPal   PaymentMethod = "paypal"
	PaymentMethodApplePay PaymentMethod = "apple"
)

// Valid reports whether the method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodApplePay:
		return true
	}
	return false
}

// ShippingInfo holds the address and contact fields collected at the
// shipping step.
type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// OrderStatus tracks an order's lifecycle after placement.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order is the finalized record produced by a completed checkout.
type Order struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	Items             []LineItem    `json:"items"`
	Shipping          ShippingInfo  `json:"shipping"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	TransactionRef    string        `json:"transaction_ref"`
	Totals            Totals        `json:"totals"`
	Status            OrderStatus   `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
}

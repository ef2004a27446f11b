// Package checkout drives the multi-step order placement flow:
// shipping -> payment -> review -> complete. Forward transitions are gated,
// backward transitions are free and preserve entered data, and order
// placement is guarded against concurrent re-entry so a session can never
// produce two orders.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/cart"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/payment"
	"github.com/teesbyshelsea/storefront/internal/pricing"
	"github.com/teesbyshelsea/storefront/internal/promo"
)

var (
	// ErrInvalidTransition means the requested operation is not allowed
	// from the session's current step.
	ErrInvalidTransition = errors.New("transition not allowed from current step")
	// ErrPaymentMethodRequired means no recognized payment method was
	// selected.
	ErrPaymentMethodRequired = errors.New("payment method required")
	// ErrCardDetailsRequired means the card method was selected without a
	// card-input handle from the payment collector.
	ErrCardDetailsRequired = errors.New("card details required")
	// ErrSubmitInProgress rejects a second order placement while a prior
	// one has not settled.
	ErrSubmitInProgress = errors.New("order submission already in progress")
	// ErrSessionComplete means the session already produced an order; a
	// fresh session is required to check out again.
	ErrSessionComplete = errors.New("checkout session already completed")
	// ErrEmptyCart rejects checkout over an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// CartInvalidError carries the validator's findings when order placement is
// aborted by cart inconsistencies.
type CartInvalidError struct {
	Result *cart.Result
}

func (e *CartInvalidError) Error() string {
	return fmt.Sprintf("cart validation failed with %d issue(s)", len(e.Result.Issues))
}

// PaymentDeclinedError surfaces a capture failure verbatim. The session
// stays at review for retry.
type PaymentDeclinedError struct {
	Message string
}

func (e *PaymentDeclinedError) Error() string {
	return "payment declined: " + e.Message
}

// OrderSubmissionError wraps a submission collaborator failure. The core
// does not retry automatically; the user retries.
type OrderSubmissionError struct {
	Err error
}

func (e *OrderSubmissionError) Error() string {
	return "order submission failed: " + e.Err.Error()
}

func (e *OrderSubmissionError) Unwrap() error {
	return e.Err
}

// OrderSubmitter is the external order-submission collaborator. It is
// expected to be idempotent from the session's perspective.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// Config assembles a session's collaborators and policy. Now and NewOrderID
// default to the clock and ORD-prefixed UUIDs when unset.
type Config struct {
	UserID         string
	Tier           domain.AccountTier
	Cart           *cart.Store
	Validator      *cart.Validator
	Gateway        payment.Gateway
	Submitter      OrderSubmitter
	Rules          pricing.Ruleset
	Promos         *promo.Resolver
	Validators     FieldValidators
	DeliveryOffset time.Duration
	Logger         *zap.Logger
	Now            func() time.Time
	NewOrderID     func() string
}

// Session is one user's in-flight checkout. It is discarded after
// completion or abandonment; cart contents live in the cart store, not
// here.
type Session struct {
	mu         sync.Mutex
	cfg        Config
	step       domain.CheckoutStep
	shipping   *domain.ShippingInfo
	method     domain.PaymentMethod
	cardHandle string
	promo      *domain.PromoApplication
	submitting bool
	order      *domain.Order
}

// NewSession creates a session at the shipping step.
func NewSession(cfg Config) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewOrderID == nil {
		cfg.NewOrderID = func() string { return "ORD-" + uuid.New().String() }
	}
	if cfg.Validators.Email == nil {
		cfg.Validators = DefaultValidators()
	}
	return &Session{cfg: cfg, step: domain.StepShipping}
}

// Step returns the session's current step.
func (s *Session) Step() domain.CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Shipping returns a copy of the captured shipping info, nil when not yet
// submitted.
func (s *Session) Shipping() *domain.ShippingInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shipping == nil {
		return nil
	}
	info := *s.shipping
	return &info
}

// PaymentMethod returns the selected method, empty when none.
func (s *Session) PaymentMethod() domain.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// AppliedPromo returns a copy of the active promo, nil when none.
func (s *Session) AppliedPromo() *domain.PromoApplication {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promo == nil {
		return nil
	}
	p := *s.promo
	return &p
}

// Order returns the finalized order after completion, nil before.
func (s *Session) Order() *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// SubmitShipping validates and captures the shipping info, advancing to
// the payment step. Field errors are returned without advancing; they are
// user-correctable, not terminal.
func (s *Session) SubmitShipping(info domain.ShippingInfo) ([]FieldError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == domain.StepComplete {
		return nil, ErrSessionComplete
	}
	if s.step != domain.StepShipping {
		return nil, ErrInvalidTransition
	}

	if errs := s.cfg.Validators.ValidateShipping(info); len(errs) > 0 {
		return errs, nil
	}

	s.shipping = &info
	s.step = domain.StepPayment
	return nil, nil
}

// SelectPayment records the payment method and advances to review. For the
// card method a card-input handle from the external payment collector must
// be present; its contents are never inspected here.
func (s *Session) SelectPayment(method domain.PaymentMethod, cardHandle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == domain.StepComplete {
		return ErrSessionComplete
	}
	if s.step != domain.StepPayment {
		return ErrInvalidTransition
	}
	if !method.Valid() {
		return ErrPaymentMethodRequired
	}
	if method == domain.PaymentMethodCard && cardHandle == "" {
		return ErrCardDetailsRequired
	}

	s.method = method
	s.cardHandle = cardHandle
	s.step = domain.StepReview
	return nil
}

// Back moves one step backward. Previously entered data is preserved and
// not re-validated; it is assumed valid until re-submitted.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmitInProgress
	}

	switch s.step {
	case domain.StepPayment:
		s.step = domain.StepShipping
	case domain.StepReview:
		s.step = domain.StepPayment
	case domain.StepComplete:
		return ErrSessionComplete
	default:
		return ErrInvalidTransition
	}
	return nil
}

// ApplyPromo resolves and activates a promo code, replacing any previously
// active one. A failed lookup returns promo.ErrInvalidPromoCode and leaves
// the active promo untouched.
func (s *Session) ApplyPromo(code string) (*domain.PromoApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == domain.StepComplete {
		return nil, ErrSessionComplete
	}

	applied, err := s.cfg.Promos.Apply(code)
	if err != nil {
		return nil, err
	}

	s.promo = applied
	p := *applied
	return &p, nil
}

// Totals computes the cart totals under the session's rules, including the
// active promo discount.
func (s *Session) Totals() domain.Totals {
	s.mu.Lock()
	rate := decimal.Zero
	if s.promo != nil {
		rate = s.promo.DiscountRate
	}
	s.mu.Unlock()

	return s.cfg.Cart.Totals(rate, s.cfg.Rules)
}

// PlaceOrder finalizes the checkout: it re-validates the cart against the
// catalog, captures payment, builds and submits the order record, and
// clears the cart. Any failure leaves the session at review with the
// specific error surfaced. A submitting guard rejects concurrent
// invocations until the in-flight attempt settles, so exactly one order is
// produced per session.
func (s *Session) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	s.mu.Lock()
	if s.step == domain.StepComplete {
		s.mu.Unlock()
		return nil, ErrSessionComplete
	}
	if s.step != domain.StepReview {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	s.submitting = true
	shipping := *s.shipping
	method := s.method
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if s.cfg.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Last line of defense against stale cart data. Price drift is
	// auto-corrected before totals are computed.
	result, err := s.cfg.Validator.Validate(ctx, s.cfg.Cart, s.cfg.Tier)
	if err != nil {
		return nil, fmt.Errorf("validate cart: %w", err)
	}
	if !result.Valid {
		return nil, &CartInvalidError{Result: result}
	}

	totals := s.Totals()

	capture, err := s.cfg.Gateway.Capture(ctx, method, totals.Total, shipping)
	if err != nil {
		return nil, &PaymentDeclinedError{Message: err.Error()}
	}
	if !capture.Success {
		return nil, &PaymentDeclinedError{Message: capture.ErrorMessage}
	}

	now := s.cfg.Now()
	order := &domain.Order{
		ID:                s.cfg.NewOrderID(),
		UserID:            s.cfg.UserID,
		Items:             s.cfg.Cart.Items(),
		Shipping:          shipping,
		PaymentMethod:     method,
		TransactionRef:    capture.TransactionRef,
		Totals:            totals,
		Status:            domain.OrderStatusConfirmed,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(s.cfg.DeliveryOffset),
	}

	submitted, err := s.cfg.Submitter.SubmitOrder(ctx, order)
	if err != nil {
		return nil, &OrderSubmissionError{Err: err}
	}

	s.cfg.Cart.Clear(ctx)

	s.mu.Lock()
	s.step = domain.StepComplete
	s.order = submitted
	s.mu.Unlock()

	s.cfg.Logger.Info("order placed",
		zap.String("order_id", submitted.ID),
		zap.String("user_id", s.cfg.UserID),
		zap.String("total", totals.Total.StringFixed(2)),
	)

	return submitted, nil
}

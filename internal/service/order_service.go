package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/catalog"
	"github.com/teesbyshelsea/storefront/internal/checkout"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/payment"
	"github.com/teesbyshelsea/storefront/internal/pricing"
	"github.com/teesbyshelsea/storefront/internal/promo"
	"github.com/teesbyshelsea/storefront/internal/repo"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrVariantUnavailable = errors.New("variant unavailable")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrPaymentFailed      = errors.New("payment failed")
)

// OrderItemInput is one requested line of a direct order. Unit prices are
// never taken from the client; they are resolved from the catalog.
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// CreateOrderInput is the payload of the direct order endpoint.
type CreateOrderInput struct {
	Items         []OrderItemInput     `json:"items"`
	Shipping      domain.ShippingInfo  `json:"shipping"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	CardHandle    string               `json:"card_handle,omitempty"`
	PromoCode     string               `json:"promo_code,omitempty"`
}

// ShippingInvalidError carries per-field shipping problems.
type ShippingInvalidError struct {
	Fields []checkout.FieldError
}

func (e *ShippingInvalidError) Error() string {
	return fmt.Sprintf("shipping info invalid: %d field error(s)", len(e.Fields))
}

// OrderService persists orders from the checkout flow and serves the
// direct order endpoint, where the server does all pricing.
type OrderService interface {
	// SubmitOrder stores an order already priced and paid by the checkout
	// session. It satisfies the session's submission collaborator.
	SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	CreateOrder(ctx context.Context, user *domain.User, input *CreateOrderInput) (*domain.Order, error)
	GetOrder(userID, orderID string) (*domain.Order, error)
	ListOrders(userID string) ([]*domain.Order, error)
}

type orderService struct {
	orders         repo.OrderRepository
	catalog        catalog.Provider
	gateway        payment.Gateway
	rules          pricing.Ruleset
	promos         *promo.Resolver
	validators     checkout.FieldValidators
	deliveryOffset time.Duration
	logger         *zap.Logger
}

// NewOrderService creates the order service.
func NewOrderService(
	orders repo.OrderRepository,
	provider catalog.Provider,
	gateway payment.Gateway,
	rules pricing.Ruleset,
	promos *promo.Resolver,
	validators checkout.FieldValidators,
	deliveryOffset time.Duration,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:         orders,
		catalog:        provider,
		gateway:        gateway,
		rules:          rules,
		promos:         promos,
		validators:     validators,
		deliveryOffset: deliveryOffset,
		logger:         logger,
	}
}

func (s *orderService) SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.Error("failed to store order", zap.Error(err), zap.String("order_id", order.ID))
		return nil, fmt.Errorf("store order: %w", err)
	}
	return order, nil
}

// CreateOrder prices, charges, and stores an order in one shot. Each line
// is checked against the catalog for existence, stock, and variant
// availability, and unit prices come from the caller's account tier.
func (s *orderService) CreateOrder(ctx context.Context, user *domain.User, input *CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if !input.PaymentMethod.Valid() {
		return nil, checkout.ErrPaymentMethodRequired
	}
	if input.PaymentMethod == domain.PaymentMethodCard && input.CardHandle == "" {
		return nil, checkout.ErrCardDetailsRequired
	}
	if fieldErrs := s.validators.ValidateShipping(input.Shipping); len(fieldErrs) > 0 {
		return nil, &ShippingInvalidError{Fields: fieldErrs}
	}

	now := time.Now()
	items := make([]domain.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		product, err := s.catalog.GetProduct(ctx, in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, in.ProductID)
		}

		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		if product.Stock < qty {
			return nil, fmt.Errorf("%w: only %d units of %q available", ErrInsufficientStock, product.Stock, product.Name)
		}
		if in.Size != "" && !product.HasSize(in.Size) {
			return nil, fmt.Errorf("%w: size %q for %q", ErrVariantUnavailable, in.Size, product.Name)
		}
		if in.Color != "" && !product.HasColor(in.Color) {
			return nil, fmt.Errorf("%w: color %q for %q", ErrVariantUnavailable, in.Color, product.Name)
		}

		items = append(items, domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: pricing.UnitPriceFor(product, user.Tier),
			Quantity:  qty,
			Size:      in.Size,
			Color:     in.Color,
			AddedAt:   now,
		})
	}

	var promoApplied *domain.PromoApplication
	if input.PromoCode != "" {
		applied, err := s.promos.Apply(input.PromoCode)
		if err != nil {
			return nil, err
		}
		promoApplied = applied
	}

	discountRate := decimal.Zero
	if promoApplied != nil {
		discountRate = promoApplied.DiscountRate
	}
	totals := pricing.ComputeTotals(items, discountRate, s.rules)

	capture, err := s.gateway.Capture(ctx, input.PaymentMethod, totals.Total, input.Shipping)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if !capture.Success {
		return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, capture.ErrorMessage)
	}

	order := &domain.Order{
		ID:                "ORD-" + uuid.New().String(),
		UserID:            user.ID,
		Items:             items,
		Shipping:          input.Shipping,
		PaymentMethod:     input.PaymentMethod,
		TransactionRef:    capture.TransactionRef,
		Totals:            totals,
		Status:            domain.OrderStatusConfirmed,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(s.deliveryOffset),
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.Error("failed to store order", zap.Error(err), zap.String("order_id", order.ID))
		return nil, fmt.Errorf("store order: %w", err)
	}

	s.logger.Info("direct order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", user.ID),
		zap.String("total", totals.Total.StringFixed(2)),
	)

	return order, nil
}

// GetOrder fetches one order, scoped to its owner.
func (s *orderService) GetOrder(userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *orderService) ListOrders(userID string) ([]*domain.Order, error) {
	orders, err := s.orders.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

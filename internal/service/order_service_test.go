package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/catalog"
	"github.com/teesbyshelsea/storefront/internal/checkout"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/payment"
	"github.com/teesbyshelsea/storefront/internal/pricing"
	"github.com/teesbyshelsea/storefront/internal/promo"
)

// decliningGateway rejects every capture.
type decliningGateway struct{}

func (decliningGateway) Capture(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal, billing domain.ShippingInfo) (*payment.CaptureResult, error) {
	return &payment.CaptureResult{Success: false, ErrorMessage: "card declined"}, nil
}

func orderTestProduct() *domain.Product {
	return &domain.Product{
		ID:             "tee-1",
		Name:           "Classic Tee",
		RetailPrice:    decimal.RequireFromString("24.99"),
		WholesalePrice: decimal.RequireFromString("14.99"),
		Stock:          10,
		Sizes:          []string{"S", "M", "L"},
		Colors:         []string{"Black"},
	}
}

func newTestOrderService(gateway payment.Gateway) (OrderService, *mockOrderRepository) {
	repo := newMockOrderRepository()
	provider := catalog.NewStaticProvider([]*domain.Product{orderTestProduct()})
	if gateway == nil {
		gateway = payment.NewSimulatedGateway(zap.NewNop())
	}
	svc := NewOrderService(
		repo,
		provider,
		gateway,
		pricing.DefaultRuleset(),
		promo.NewResolver(promo.Registry{"WELCOME10": decimal.RequireFromString("0.10")}),
		checkout.DefaultValidators(),
		7*24*time.Hour,
		zap.NewNop(),
	)
	return svc, repo
}

func orderShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Shelsea",
		LastName:  "Smith",
		Email:     "shelsea@example.com",
		Phone:     "+15551234567",
		Address:   "123 Main St",
		City:      "Austin",
		State:     "TX",
		ZipCode:   "78701",
		Country:   "US",
	}
}

func retailUser() *domain.User {
	return &domain.User{ID: "user-1", Tier: domain.TierRetail}
}

func TestOrderService_CreateOrder_ServerSidePricing(t *testing.T) {
	svc, repo := newTestOrderService(nil)

	order, err := svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 2, Size: "M", Color: "Black"}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if got := order.Items[0].UnitPrice.StringFixed(2); got != "24.99" {
		t.Errorf("Expected catalog retail price, got %s", got)
	}
	// 49.98 subtotal, flat shipping, 8% tax.
	if got := order.Totals.Total.StringFixed(2); got != "63.97" {
		t.Errorf("Expected total 63.97, got %s", got)
	}
	if order.Status != domain.OrderStatusConfirmed {
		t.Errorf("Expected confirmed order, got %s", order.Status)
	}
	if len(repo.orders) != 1 {
		t.Errorf("Expected order persisted, got %d", len(repo.orders))
	}
}

func TestOrderService_CreateOrder_WholesalePricing(t *testing.T) {
	svc, _ := newTestOrderService(nil)

	order, err := svc.CreateOrder(context.Background(), &domain.User{ID: "w-1", Tier: domain.TierWholesale}, &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 1, Size: "M", Color: "Black"}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if got := order.Items[0].UnitPrice.StringFixed(2); got != "14.99" {
		t.Errorf("Expected wholesale price, got %s", got)
	}
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	svc, _ := newTestOrderService(nil)

	_, err := svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "missing", Quantity: 1}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	svc, _ := newTestOrderService(nil)

	_, err := svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 50, Size: "M", Color: "Black"}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("Expected ErrInsufficientStock, got %v", err)
	}
}

func TestOrderService_CreateOrder_BadShipping(t *testing.T) {
	svc, repo := newTestOrderService(nil)

	shipping := orderShipping()
	shipping.Email = "bad"
	_, err := svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 1, Size: "M", Color: "Black"}},
		Shipping:      shipping,
		PaymentMethod: domain.PaymentMethodPayPal,
	})

	var shipErr *ShippingInvalidError
	if !errors.As(err, &shipErr) {
		t.Fatalf("Expected ShippingInvalidError, got %v", err)
	}
	if len(shipErr.Fields) != 1 || shipErr.Fields[0].Field != "email" {
		t.Errorf("Expected email field error, got %+v", shipErr.Fields)
	}
	if len(repo.orders) != 0 {
		t.Error("Expected no order persisted")
	}
}

func TestOrderService_CreateOrder_DeclinedPayment(t *testing.T) {
	svc, repo := newTestOrderService(decliningGateway{})

	_, err := svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 1, Size: "M", Color: "Black"}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrPaymentFailed) {
		t.Errorf("Expected ErrPaymentFailed, got %v", err)
	}
	if len(repo.orders) != 0 {
		t.Error("Expected no order persisted after declined payment")
	}
}

func TestOrderService_CreateOrder_Promo(t *testing.T) {
	svc, _ := newTestOrderService(nil)

	order, err := svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 4, Size: "M", Color: "Black"}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
		PromoCode:     "welcome10",
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	// Subtotal 99.96, 10% discount.
	if got := order.Totals.Discount.StringFixed(3); got != "9.996" {
		t.Errorf("Expected discount 9.996, got %s", got)
	}

	_, err = svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 1, Size: "M", Color: "Black"}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
		PromoCode:     "BOGUS",
	})
	if !errors.Is(err, promo.ErrInvalidPromoCode) {
		t.Errorf("Expected ErrInvalidPromoCode, got %v", err)
	}
}

func TestOrderService_GetOrder_ScopedToOwner(t *testing.T) {
	svc, _ := newTestOrderService(nil)

	order, err := svc.CreateOrder(context.Background(), retailUser(), &CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 1, Size: "M", Color: "Black"}},
		Shipping:      orderShipping(),
		PaymentMethod: domain.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := svc.GetOrder("user-1", order.ID); err != nil {
		t.Errorf("Expected owner to fetch the order, got %v", err)
	}
	if _, err := svc.GetOrder("someone-else", order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Expected ErrOrderNotFound for non-owner, got %v", err)
	}
}

func TestOrderService_ListOrders_NewestFirst(t *testing.T) {
	svc, _ := newTestOrderService(nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateOrder(ctx, retailUser(), &CreateOrderInput{
			Items:         []OrderItemInput{{ProductID: "tee-1", Quantity: 1, Size: "M", Color: "Black"}},
			Shipping:      orderShipping(),
			PaymentMethod: domain.PaymentMethodPayPal,
		}); err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
	}

	orders, err := svc.ListOrders("user-1")
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("Expected 2 orders, got %d", len(orders))
	}
}

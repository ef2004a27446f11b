package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

func line(price string, qty int) domain.LineItem {
	return domain.LineItem{
		ProductID: "p1",
		Name:      "Test Tee",
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestComputeTotals_BelowThreshold(t *testing.T) {
	items := []domain.LineItem{line("40.00", 1)}

	totals := ComputeTotals(items, decimal.Zero, DefaultRuleset())

	if got := totals.Subtotal.StringFixed(2); got != "40.00" {
		t.Errorf("Expected subtotal 40.00, got %s", got)
	}
	if got := totals.Shipping.StringFixed(2); got != "9.99" {
		t.Errorf("Expected shipping 9.99, got %s", got)
	}
	if got := totals.Tax.StringFixed(2); got != "3.20" {
		t.Errorf("Expected tax 3.20, got %s", got)
	}
	if got := totals.Total.StringFixed(2); got != "53.19" {
		t.Errorf("Expected total 53.19, got %s", got)
	}
}

func TestComputeTotals_ThresholdIsInclusive(t *testing.T) {
	items := []domain.LineItem{line("50.00", 1)}

	totals := ComputeTotals(items, decimal.Zero, DefaultRuleset())

	if !totals.Shipping.IsZero() {
		t.Errorf("Expected free shipping at exactly 50.00, got %s", totals.Shipping)
	}
	if !totals.View().FreeShipping {
		t.Error("Expected FreeShipping flag in view")
	}
}

func TestComputeTotals_JustBelowThreshold(t *testing.T) {
	items := []domain.LineItem{line("49.99", 1)}

	totals := ComputeTotals(items, decimal.Zero, DefaultRuleset())

	if got := totals.Shipping.StringFixed(2); got != "9.99" {
		t.Errorf("Expected flat shipping below threshold, got %s", got)
	}
}

func TestComputeTotals_Discount(t *testing.T) {
	items := []domain.LineItem{line("100.00", 1)}
	rate := decimal.RequireFromString("0.10")

	totals := ComputeTotals(items, rate, DefaultRuleset())

	if got := totals.Discount.StringFixed(2); got != "10.00" {
		t.Errorf("Expected discount 10.00, got %s", got)
	}
	// Discount applies to the subtotal only; tax and shipping are
	// computed on the undiscounted subtotal.
	if got := totals.Tax.StringFixed(2); got != "8.00" {
		t.Errorf("Expected tax 8.00, got %s", got)
	}
	if got := totals.Total.StringFixed(2); got != "98.00" {
		t.Errorf("Expected total 98.00, got %s", got)
	}
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, decimal.Zero, DefaultRuleset())

	if !totals.Subtotal.IsZero() {
		t.Errorf("Expected zero subtotal, got %s", totals.Subtotal)
	}
	if got := totals.Shipping.StringFixed(2); got != "9.99" {
		t.Errorf("Expected flat shipping for empty cart, got %s", got)
	}
}

func TestComputeTotals_Deterministic(t *testing.T) {
	items := []domain.LineItem{line("24.99", 3), line("19.95", 2)}
	rules := DefaultRuleset()
	rate := decimal.RequireFromString("0.15")

	first := ComputeTotals(items, rate, rules)
	second := ComputeTotals(items, rate, rules)

	if !first.Total.Equal(second.Total) {
		t.Errorf("Expected identical totals, got %s and %s", first.Total, second.Total)
	}
}

func TestUnitPriceFor_Tiers(t *testing.T) {
	product := &domain.Product{
		RetailPrice:    decimal.RequireFromString("24.99"),
		WholesalePrice: decimal.RequireFromString("14.99"),
	}

	if got := UnitPriceFor(product, domain.TierRetail).StringFixed(2); got != "24.99" {
		t.Errorf("Expected retail price 24.99, got %s", got)
	}
	if got := UnitPriceFor(product, domain.TierWholesale).StringFixed(2); got != "14.99" {
		t.Errorf("Expected wholesale price 14.99, got %s", got)
	}
	if got := UnitPriceFor(product, domain.AccountTier("")).StringFixed(2); got != "24.99" {
		t.Errorf("Expected retail price for unknown tier, got %s", got)
	}
}

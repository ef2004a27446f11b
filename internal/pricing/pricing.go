// Package pricing computes unit prices and cart totals. All functions are
// pure; the ruleset is built once from configuration and passed in.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/teesbyshelsea/storefront/internal/config"
	"github.com/teesbyshelsea/storefront/internal/domain"
)

// Ruleset holds the parameters of the totals formula.
type Ruleset struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// NewRuleset builds a ruleset from configuration.
func NewRuleset(cfg config.PricingConfig) Ruleset {
	return Ruleset{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}
}

// DefaultRuleset returns the storefront's standard rules: 8% tax, free
// shipping at $50, $9.99 flat fee otherwise.
func DefaultRuleset() Ruleset {
	return Ruleset{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(50),
		FlatShippingFee:       decimal.RequireFromString("9.99"),
	}
}

// UnitPriceFor returns the price that applies to the given account tier.
// Wholesale accounts pay the wholesale price, everyone else retail. The
// result is snapshotted into the line item at add time; a later catalog
// price change does not alter an in-progress cart until the validator runs.
func UnitPriceFor(p *domain.Product, tier domain.AccountTier) decimal.Decimal {
	if tier == domain.TierWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// ComputeTotals derives the money breakdown for the given line items.
// Shipping is free when the subtotal reaches the threshold (inclusive);
// the discount rate comes from the active promo, zero when none. No
// intermediate rounding is applied.
func ComputeTotals(items []domain.LineItem, discountRate decimal.Decimal, rules Ruleset) domain.Totals {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].Subtotal())
	}

	tax := subtotal.Mul(rules.TaxRate)

	shipping := rules.FlatShippingFee
	if subtotal.GreaterThanOrEqual(rules.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	discount := decimal.Zero
	if discountRate.IsPositive() {
		discount = subtotal.Mul(discountRate)
	}

	return domain.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}

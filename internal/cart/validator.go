package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/catalog"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/pricing"
)

// IssueKind classifies a cart consistency issue.
type IssueKind string

const (
	IssueProductUnavailable IssueKind = "product_unavailable"
	IssueInsufficientStock  IssueKind = "insufficient_stock"
	IssueVariantUnavailable IssueKind = "variant_unavailable"
	IssuePriceUpdated       IssueKind = "price_updated"
)

// VariantAxis names the variant dimension an issue refers to.
type VariantAxis string

const (
	AxisSize  VariantAxis = "size"
	AxisColor VariantAxis = "color"
)

// Issue is one finding of a validation pass. PriceUpdated is informational:
// the line was auto-corrected and does not invalidate the cart.
type Issue struct {
	Kind      IssueKind        `json:"kind"`
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Axis      VariantAxis      `json:"axis,omitempty"`
	Available int              `json:"available,omitempty"`
	OldPrice  *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice  *decimal.Decimal `json:"new_price,omitempty"`
	Message   string           `json:"message"`
}

// Result is the outcome of a validation pass. Issues are reported in cart
// order, blocking and informational mixed.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// priceDriftEpsilon absorbs currency-rounding noise when comparing a stored
// unit price against the live catalog price.
var priceDriftEpsilon = decimal.RequireFromString("0.01")

// Validator reconciles a stored cart against live catalog state. It is the
// last line of defense before order finalization.
type Validator struct {
	catalog catalog.Provider
	logger  *zap.Logger
}

// NewValidator creates a validator over the given catalog.
func NewValidator(provider catalog.Provider, logger *zap.Logger) *Validator {
	return &Validator{catalog: provider, logger: logger}
}

// Validate checks every line for product availability, stock sufficiency
// and variant availability, and reconciles price drift in place. Blocking
// issues mark the cart invalid but never mutate it; the validator reports,
// it does not clamp. A drifted unit price is the one auto-correction: the
// line is updated to the current tier price and the cart re-persisted.
// The returned error covers catalog lookup failures only.
func (v *Validator) Validate(ctx context.Context, store *Store, tier domain.AccountTier) (*Result, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	result := &Result{Valid: true}
	repriced := false

	for i := range store.items {
		line := &store.items[i]

		product, err := v.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("look up product %s: %w", line.ProductID, err)
		}

		if product == nil {
			result.Valid = false
			result.Issues = append(result.Issues, Issue{
				Kind:      IssueProductUnavailable,
				ProductID: line.ProductID,
				Name:      line.Name,
				Message:   fmt.Sprintf("Product %q is no longer available", line.Name),
			})
			continue
		}

		if product.Stock < line.Quantity {
			result.Valid = false
			result.Issues = append(result.Issues, Issue{
				Kind:      IssueInsufficientStock,
				ProductID: line.ProductID,
				Name:      product.Name,
				Available: product.Stock,
				Message:   fmt.Sprintf("Only %d units of %q available", product.Stock, product.Name),
			})
		}

		if line.Size != "" && !product.HasSize(line.Size) {
			result.Valid = false
			result.Issues = append(result.Issues, Issue{
				Kind:      IssueVariantUnavailable,
				ProductID: line.ProductID,
				Name:      product.Name,
				Axis:      AxisSize,
				Message:   fmt.Sprintf("Size %q no longer available for %q", line.Size, product.Name),
			})
		}

		if line.Color != "" && !product.HasColor(line.Color) {
			result.Valid = false
			result.Issues = append(result.Issues, Issue{
				Kind:      IssueVariantUnavailable,
				ProductID: line.ProductID,
				Name:      product.Name,
				Axis:      AxisColor,
				Message:   fmt.Sprintf("Color %q no longer available for %q", line.Color, product.Name),
			})
		}

		current := pricing.UnitPriceFor(product, tier)
		if current.Sub(line.UnitPrice).Abs().GreaterThan(priceDriftEpsilon) {
			old := line.UnitPrice
			line.UnitPrice = current
			repriced = true
			result.Issues = append(result.Issues, Issue{
				Kind:      IssuePriceUpdated,
				ProductID: line.ProductID,
				Name:      product.Name,
				OldPrice:  &old,
				NewPrice:  &current,
				Message:   fmt.Sprintf("Price updated for %q", product.Name),
			})
		}
	}

	if repriced {
		store.save(ctx)
	}

	if !result.Valid {
		v.logger.Info("cart validation failed",
			zap.String("key", store.key),
			zap.Int("issues", len(result.Issues)),
		)
	}

	return result, nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one distinct (product, size, color) entry in a cart. The unit
// price is snapshotted when the item is added and only refreshed by the cart
// validator before checkout.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	AddedAt   time.Time       `json:"added_at"`
}

// Matches reports whether the line has the given merge key. Lines with the
// same (product, size, color) triple are merged, never duplicated.
func (li *LineItem) Matches(productID, size, color string) bool {
	return li.ProductID == productID && li.Size == size && li.Color == color
}

// Subtotal is the line's contribution to the cart subtotal.
func (li *LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// PromoApplication is an applied promo code. At most one is active at a
// time; applying a new valid code replaces the previous one.
type PromoApplication struct {
	Code         string          `json:"code"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

// Totals is the derived money breakdown of a cart. Values are kept at full
// precision; rounding happens only in View.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// TotalsView is the presentation form of Totals, rounded to cents.
type TotalsView struct {
	Subtotal     string `json:"subtotal"`
	Tax          string `json:"tax"`
	Shipping     string `json:"shipping"`
	Discount     string `json:"discount"`
	Total        string `json:"total"`
	FreeShipping bool   `json:"free_shipping"`
}

// View rounds the totals to two decimal places for display.
func (t Totals) View() TotalsView {
	return TotalsView{
		Subtotal:     t.Subtotal.StringFixed(2),
		Tax:          t.Tax.StringFixed(2),
		Shipping:     t.Shipping.StringFixed(2),
		Discount:     t.Discount.StringFixed(2),
		Total:        t.Total.StringFixed(2),
		FreeShipping: t.Shipping.IsZero(),
	}
}

// Package domain defines the storefront's business domain models and the
// core rules attached to them. Domain types are independent of transport
// and storage concerns.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog entry. Pricing carries both tiers; the
// pricing engine decides which one applies for a given account.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Stock          int             `json:"stock"`
	Sizes          []string        `json:"sizes"`
	Colors         []string        `json:"colors"`
	ImageURL       string          `json:"image_url"`
	Featured       bool            `json:"featured"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HasSize reports whether the product is offered in the given size.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasColor reports whether the product is offered in the given color.
func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter";
// category "all" is treated the same as empty.
type ProductFilter struct {
	Category     string
	Search       string
	FeaturedOnly bool
}

// Package catalog exposes the read-only product catalog to the cart and
// checkout core. The core never mutates catalog state.
package catalog

import (
	"context"
	"strings"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

// Provider supplies purchasable products. GetProduct returns (nil, nil)
// when the product does not exist; an error means the lookup itself failed.
type Provider interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// StaticProvider serves a fixed product list from memory. Used in tests and
// as a seed source.
type StaticProvider struct {
	products []*domain.Product
}

// NewStaticProvider creates a provider over the given products.
func NewStaticProvider(products []*domain.Product) *StaticProvider {
	return &StaticProvider{products: products}
}

// ListProducts filters by category, free-text search over name and
// description, and the featured flag.
func (p *StaticProvider) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	search := strings.ToLower(filter.Search)
	for _, prod := range p.products {
		if filter.Category != "" && filter.Category != "all" && prod.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(prod.Name), search) &&
			!strings.Contains(strings.ToLower(prod.Description), search) {
			continue
		}
		if filter.FeaturedOnly && !prod.Featured {
			continue
		}
		out = append(out, prod)
	}
	return out, nil
}

// GetProduct returns the product with the given ID, or (nil, nil).
func (p *StaticProvider) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	for _, prod := range p.products {
		if prod.ID == id {
			return prod, nil
		}
	}
	return nil, nil
}

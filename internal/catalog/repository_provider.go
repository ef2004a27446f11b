package catalog

import (
	"context"
	"fmt"

	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/repo"
)

// repositoryProvider serves the catalog from the product repository.
type repositoryProvider struct {
	products repo.ProductRepository
}

// NewRepositoryProvider adapts the product repository to the Provider
// interface used by the cart validator and the pricing paths.
func NewRepositoryProvider(products repo.ProductRepository) Provider {
	return &repositoryProvider{products: products}
}

func (p *repositoryProvider) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products, err := p.products.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (p *repositoryProvider) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	product, err := p.products.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

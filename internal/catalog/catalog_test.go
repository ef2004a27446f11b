package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

func testProducts() []*domain.Product {
	price := decimal.RequireFromString("24.99")
	return []*domain.Product{
		{ID: "tee-1", Name: "Classic White Tee", Description: "A wardrobe staple", Category: "basics", RetailPrice: price, Featured: true},
		{ID: "tee-2", Name: "Graphic Tee", Description: "Bold summer print", Category: "graphic", RetailPrice: price},
		{ID: "hoodie-1", Name: "Zip Hoodie", Description: "Heavyweight fleece", Category: "outerwear", RetailPrice: price, Featured: true},
	}
}

func TestStaticProvider_GetProduct(t *testing.T) {
	p := NewStaticProvider(testProducts())
	ctx := context.Background()

	product, err := p.GetProduct(ctx, "tee-2")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if product == nil || product.Name != "Graphic Tee" {
		t.Errorf("Expected Graphic Tee, got %+v", product)
	}

	missing, err := p.GetProduct(ctx, "nope")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown product, got %+v", missing)
	}
}

func TestStaticProvider_ListProducts_Filters(t *testing.T) {
	p := NewStaticProvider(testProducts())
	ctx := context.Background()

	all, err := p.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 products, got %d", len(all))
	}

	// "all" is the storefront's sentinel for no category filter.
	unfiltered, _ := p.ListProducts(ctx, domain.ProductFilter{Category: "all"})
	if len(unfiltered) != 3 {
		t.Errorf("Expected category 'all' to match everything, got %d", len(unfiltered))
	}

	basics, _ := p.ListProducts(ctx, domain.ProductFilter{Category: "basics"})
	if len(basics) != 1 || basics[0].ID != "tee-1" {
		t.Errorf("Expected only tee-1 in basics, got %d results", len(basics))
	}

	// Search matches name or description, case-insensitively.
	bySearch, _ := p.ListProducts(ctx, domain.ProductFilter{Search: "SUMMER"})
	if len(bySearch) != 1 || bySearch[0].ID != "tee-2" {
		t.Errorf("Expected search to match description of tee-2, got %d results", len(bySearch))
	}

	featured, _ := p.ListProducts(ctx, domain.ProductFilter{FeaturedOnly: true})
	if len(featured) != 2 {
		t.Errorf("Expected 2 featured products, got %d", len(featured))
	}

	none, _ := p.ListProducts(ctx, domain.ProductFilter{Category: "basics", Search: "hoodie"})
	if len(none) != 0 {
		t.Errorf("Expected combined filters to match nothing, got %d results", len(none))
	}
}

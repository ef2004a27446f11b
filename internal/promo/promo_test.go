package promo

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func testResolver() *Resolver {
	return NewResolver(Registry{
		"WELCOME10": decimal.RequireFromString("0.10"),
		"SUMMER20":  decimal.RequireFromString("0.20"),
	})
}

func TestResolver_Apply_Valid(t *testing.T) {
	r := testResolver()

	applied, err := r.Apply("WELCOME10")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied.Code != "WELCOME10" {
		t.Errorf("Expected code WELCOME10, got %s", applied.Code)
	}
	if got := applied.DiscountRate.StringFixed(2); got != "0.10" {
		t.Errorf("Expected rate 0.10, got %s", got)
	}
}

func TestResolver_Apply_Normalizes(t *testing.T) {
	r := testResolver()

	applied, err := r.Apply("  summer20  ")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied.Code != "SUMMER20" {
		t.Errorf("Expected normalized code SUMMER20, got %s", applied.Code)
	}
}

func TestResolver_Apply_Unknown(t *testing.T) {
	r := testResolver()

	_, err := r.Apply("BOGUS")
	if !errors.Is(err, ErrInvalidPromoCode) {
		t.Errorf("Expected ErrInvalidPromoCode, got %v", err)
	}
}

func TestResolver_Apply_Empty(t *testing.T) {
	r := testResolver()

	if _, err := r.Apply("   "); !errors.Is(err, ErrInvalidPromoCode) {
		t.Errorf("Expected ErrInvalidPromoCode for blank code, got %v", err)
	}
}

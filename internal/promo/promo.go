// Package promo validates promo codes against a static registry.
package promo

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

// ErrInvalidPromoCode is returned when a code is not in the registry. It is
// user-correctable; callers surface it as a rejection, never a crash.
var ErrInvalidPromoCode = errors.New("invalid promo code")

// Registry maps normalized (uppercase) codes to discount rates in [0,1).
type Registry map[string]decimal.Decimal

// Resolver looks up promo codes.
type Resolver struct {
	registry Registry
}

// NewResolver creates a resolver over the given registry.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Normalize trims whitespace and uppercases a user-supplied code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply resolves a code into a PromoApplication, or ErrInvalidPromoCode on
// a miss. The caller owns replacement semantics: a successful Apply
// replaces any previously active promo, a failed one leaves it untouched.
func (r *Resolver) Apply(code string) (*domain.PromoApplication, error) {
	normalized := Normalize(code)
	rate, ok := r.registry[normalized]
	if !ok {
		return nil, ErrInvalidPromoCode
	}
	return &domain.PromoApplication{Code: normalized, DiscountRate: rate}, nil
}

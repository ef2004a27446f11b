// Package cart implements the cart store and the pre-checkout cart
// validator. A cart is an ordered sequence of line items merged by
// (product, size, color); every mutation is persisted synchronously to
// durable storage under the store's key.
package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/pricing"
	"github.com/teesbyshelsea/storefront/internal/storage"
)

// Store holds the line items of one session's cart. It does not validate
// items against the catalog; that is the validator's job, run before
// checkout.
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	key     string
	items   []domain.LineItem
	logger  *zap.Logger
}

// NewStore creates a cart store bound to a storage key and hydrates it.
// Absent or malformed stored data yields an empty cart; the cart is a
// convenience cache, so load never fails.
func NewStore(ctx context.Context, st storage.Store, key string, logger *zap.Logger) *Store {
	s := &Store{storage: st, key: key, logger: logger}
	s.load(ctx)
	return s
}

// Key returns the storage key the cart persists under.
func (s *Store) Key() string {
	return s.key
}

// AddItem merges the given quantity into an existing line with the same
// (product, size, color) key, or appends a new line. Quantities below one
// are treated as one. The unit price must be the price snapshotted by the
// caller at add time. Returns the resulting line.
func (s *Store) AddItem(ctx context.Context, productID, name string, unitPrice decimal.Decimal, size, color string, quantity int) domain.LineItem {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Matches(productID, size, color) {
			s.items[i].Quantity += quantity
			s.save(ctx)
			return s.items[i]
		}
	}

	line := domain.LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Size:      size,
		Color:     color,
		AddedAt:   time.Now().UTC(),
	}
	s.items = append(s.items, line)
	s.save(ctx)
	return line
}

// UpdateQuantity sets a line's quantity exactly. A quantity of zero or
// below removes the line. A non-matching key is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID, size, color)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Matches(productID, size, color) {
			s.items[i].Quantity = quantity
			s.save(ctx)
			return
		}
	}
}

// RemoveItem deletes the matching line. Absence is not an error.
func (s *Store) RemoveItem(ctx context.Context, productID, size, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Matches(productID, size, color) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.save(ctx)
			return
		}
	}
}

// Clear empties the cart and removes the persisted entry.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.storage.Remove(ctx, s.key); err != nil {
		s.logger.Warn("failed to clear persisted cart", zap.String("key", s.key), zap.Error(err))
	}
}

// Items returns a copy of the cart's lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Totals computes the cart's money breakdown under the given rules. Pure
// with respect to cart state.
func (s *Store) Totals(discountRate decimal.Decimal, rules pricing.Ruleset) domain.Totals {
	return pricing.ComputeTotals(s.Items(), discountRate, rules)
}

// load hydrates the cart from storage, substituting an empty cart for
// absent or malformed data. Lines with non-positive quantities are dropped
// to uphold the quantity invariant regardless of what was stored.
func (s *Store) load(ctx context.Context) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to load cart, starting empty", zap.String("key", s.key), zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("malformed stored cart, starting empty", zap.String("key", s.key), zap.Error(err))
		return
	}

	for _, item := range items {
		if item.Quantity >= 1 {
			s.items = append(s.items, item)
		}
	}
}

// save persists the current lines. Persistence failures are logged, not
// surfaced; the in-memory cart stays authoritative for the session.
// Callers must hold s.mu.
func (s *Store) save(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("failed to persist cart", zap.String("key", s.key), zap.Error(err))
	}
}

package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/storage"
)

// Manager hands out one Store per storage key so the cart handlers and an
// in-flight checkout session always see the same in-memory cart.
type Manager struct {
	mu      sync.Mutex
	storage storage.Store
	stores  map[string]*Store
	logger  *zap.Logger
}

// NewManager creates a manager over the given storage backend.
func NewManager(st storage.Store, logger *zap.Logger) *Manager {
	return &Manager{
		storage: st,
		stores:  make(map[string]*Store),
		logger:  logger,
	}
}

// Store returns the cart store for the given key, hydrating it from
// storage on first access.
func (m *Manager) Store(ctx context.Context, key string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[key]; ok {
		return s
	}
	s := NewStore(ctx, m.storage, key, m.logger)
	m.stores[key] = s
	return s
}

// Release drops the in-memory store for a key. The persisted cart, if any,
// is untouched; the next access re-hydrates.
func (m *Manager) Release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, key)
}

package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/cart"
	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/payment"
	"github.com/teesbyshelsea/storefront/internal/pricing"
	"github.com/teesbyshelsea/storefront/internal/promo"
)

// Deps are the collaborators shared by every checkout session.
type Deps struct {
	Carts          *cart.Manager
	Validator      *cart.Validator
	Gateway        payment.Gateway
	Submitter      OrderSubmitter
	Rules          pricing.Ruleset
	Promos         *promo.Resolver
	Validators     FieldValidators
	DeliveryOffset time.Duration
	Logger         *zap.Logger
}

// Manager tracks at most one in-flight checkout session per user.
type Manager struct {
	mu       sync.Mutex
	deps     Deps
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, sessions: make(map[string]*Session)}
}

// cartKey is the storage key for a user's cart.
func cartKey(userID string) string {
	return "cart:" + userID
}

// CartFor returns the user's cart store.
func (m *Manager) CartFor(ctx context.Context, userID string) *cart.Store {
	return m.deps.Carts.Store(ctx, cartKey(userID))
}

// Start begins a checkout session for the user, replacing any abandoned
// one. Starting is rejected while a prior session is mid-submission, and
// over an empty cart.
func (m *Manager) Start(ctx context.Context, user *domain.User) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[user.ID]; ok {
		existing.mu.Lock()
		submitting := existing.submitting
		existing.mu.Unlock()
		if submitting {
			return nil, ErrSubmitInProgress
		}
	}

	store := m.deps.Carts.Store(ctx, cartKey(user.ID))
	if store.IsEmpty() {
		return nil, ErrEmptyCart
	}

	session := NewSession(Config{
		UserID:         user.ID,
		Tier:           user.Tier,
		Cart:           store,
		Validator:      m.deps.Validator,
		Gateway:        m.deps.Gateway,
		Submitter:      m.deps.Submitter,
		Rules:          m.deps.Rules,
		Promos:         m.deps.Promos,
		Validators:     m.deps.Validators,
		DeliveryOffset: m.deps.DeliveryOffset,
		Logger:         m.deps.Logger,
	})
	m.sessions[user.ID] = session
	return session, nil
}

// Session returns the user's in-flight session, if any.
func (m *Manager) Session(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Discard drops the user's session, e.g. on navigation away or after the
// confirmation has been displayed. No rollback of a submitted order is
// attempted.
func (m *Manager) Discard(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

package service

import (
	"errors"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

// mockUserRepository is an in-memory UserRepository.
type mockUserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(user *domain.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return errors.New("email already exists")
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepository) GetByID(id string) (*domain.User, error) {
	user, exists := m.byID[id]
	if !exists {
		return nil, nil
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*domain.User, error) {
	user, exists := m.byEmail[email]
	if !exists {
		return nil, nil
	}
	return user, nil
}

func (m *mockUserRepository) Update(user *domain.User) error {
	if _, exists := m.byID[user.ID]; !exists {
		return errors.New("user not found")
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

// mockOrderRepository is an in-memory OrderRepository.
type mockOrderRepository struct {
	orders map[string]*domain.Order
	order  []string
	err    error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *mockOrderRepository) Create(order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.orders[order.ID] = order
	m.order = append(m.order, order.ID)
	return nil
}

func (m *mockOrderRepository) GetByID(id string) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, nil
	}
	return order, nil
}

func (m *mockOrderRepository) ListByUser(userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for i := len(m.order) - 1; i >= 0; i-- {
		if o := m.orders[m.order[i]]; o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

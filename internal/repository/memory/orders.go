package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

// OrderRepository is an in-memory implementation of repository.OrderRepository.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.Order)}
}

// Create stores a new order.
func (r *OrderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = newID()
	r.orders[order.ID] = *order
	return nil
}

// FindByID returns the order with the given id.
func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

// ListByAccount returns the orders of an account, newest first.
func (r *OrderRepository) ListByAccount(_ context.Context, accountID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []*domain.Order{}
	for _, order := range r.orders {
		if order.AccountID == accountID {
			order := order
			orders = append(orders, &order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderDate.After(orders[j].OrderDate) })
	return orders, nil
}

// UpdateStatus moves the order to "to" only while its status is one of "from".
func (r *OrderRepository) UpdateStatus(_ context.Context, id string, from []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || !slices.Contains(from, order.Status) {
		return false, nil
	}
	order.Status = to
	r.orders[id] = order
	return true, nil
}

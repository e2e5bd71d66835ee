package services

import (
	"sync"

	"github.com/kendall-kelly/tailoring-orders-portal/models"
)

// OrderStore is the transient client-side copy of a user's orders. A refetch
// replaces it wholesale; updates and deletes patch it by id.
type OrderStore struct {
	mu     sync.RWMutex
	orders []models.Order
}

// NewOrderStore creates an empty store
func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

// Replace swaps the cached orders for a fresh list, keeping its order
func (s *OrderStore) Replace(orders []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]models.Order(nil), orders...)
}

// Patch replaces the cached order with the same id. It returns false when
// the id is not cached.
func (s *OrderStore) Patch(order models.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order
			return true
		}
	}
	return false
}

// Remove drops the order with the given id
func (s *OrderStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the cached order with the given id
func (s *OrderStore) Get(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// All returns a copy of the cached orders
func (s *OrderStore) All() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order{}, s.orders...)
}

// Len returns the number of cached orders
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

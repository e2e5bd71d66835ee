package services

import (
	"context"
	"sync"

	"github.com/kendall-kelly/tailoring-orders-portal/models"
)

// MockOrderAPI is an in-memory OrderAPI for tests. Calls are recorded and
// the Err fields force failures.
type MockOrderAPI struct {
	mu     sync.RWMutex
	orders []models.Order

	ListErr   error
	DeleteErr error
	UpdateErr error

	// UpdateHook, when set, runs before an update is applied; it may block
	// to simulate a slow service.
	UpdateHook func(update models.OrderUpdate)

	Tokens  []string
	Deleted []string
	Updates []models.OrderUpdate
}

// NewMockOrderAPI creates a mock seeded with orders
func NewMockOrderAPI(orders ...models.Order) *MockOrderAPI {
	return &MockOrderAPI{orders: append([]models.Order(nil), orders...)}
}

// ListMyOrders returns a copy of the seeded orders
func (m *MockOrderAPI) ListMyOrders(ctx context.Context, token string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens = append(m.Tokens, token)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Order{}, m.orders...), nil
}

// DeleteOrder removes the order from the mock
func (m *MockOrderAPI) DeleteOrder(ctx context.Context, token, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens = append(m.Tokens, token)
	m.Deleted = append(m.Deleted, orderID)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, o := range m.orders {
		if o.ID == orderID {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "Order not found"}
}

// UpdateOrder applies the update to the stored order, keeping its status and date
func (m *MockOrderAPI) UpdateOrder(ctx context.Context, token string, update models.OrderUpdate) (*models.Order, error) {
	m.mu.RLock()
	hook := m.UpdateHook
	m.mu.RUnlock()
	if hook != nil {
		hook(update)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens = append(m.Tokens, token)
	m.Updates = append(m.Updates, update)
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for i, o := range m.orders {
		if o.ID != update.ID {
			continue
		}
		updated := models.Order{
			ID:               o.ID,
			Status:           o.Status,
			OrderDate:        o.OrderDate,
			Gender:           update.Gender,
			Customer:         update.Customer,
			Location:         update.Location,
			DeliveryLocation: update.DeliveryLocation,
			Description:      update.Description,
			Garment:          update.Garment,
			Style:            update.Style,
		}
		m.orders[i] = updated
		return &updated, nil
	}
	return nil, &APIError{StatusCode: 404, Message: "Order not found"}
}

// Orders returns the current state of the mock
func (m *MockOrderAPI) Orders() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Order{}, m.orders...)
}

// LastUpdate returns the most recent update request, if any
func (m *MockOrderAPI) LastUpdate() (models.OrderUpdate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.Updates) == 0 {
		return models.OrderUpdate{}, false
	}
	return m.Updates[len(m.Updates)-1], true
}

// DeletedIDs returns the ids passed to DeleteOrder
func (m *MockOrderAPI) DeletedIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.Deleted...)
}

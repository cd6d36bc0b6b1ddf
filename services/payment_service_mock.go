package services

import (
	"fmt"
	"sync"
)

// MockPaymentGateway is a mock implementation of PaymentGateway for testing
type MockPaymentGateway struct {
	orders     map[string]float64 // map of order ID to amount
	signatures map[string]string  // map of "orderID:paymentID" to accepted signature
	failNext   bool
	mu         sync.RWMutex
}

// NewMockPaymentGateway creates a new mock payment gateway
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		orders:     make(map[string]float64),
		signatures: make(map[string]string),
	}
}

// SetAsMockForTesting sets this mock as the global payment gateway instance for testing
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

// FailNextOrder makes the next CreateOrder call fail (simulates gateway downtime)
func (m *MockPaymentGateway) FailNextOrder() {
	m.mu.Lock()
	m.failNext = true
	m.mu.Unlock()
}

// CreateOrder simulates registering a payment order with the gateway
func (m *MockPaymentGateway) CreateOrder(amount float64, receipt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return "", fmt.Errorf("mock gateway unavailable")
	}

	orderID := fmt.Sprintf("order_mock_%d", len(m.orders)+1)
	m.orders[orderID] = amount
	return orderID, nil
}

// AcceptSignature registers a signature the mock will treat as valid
func (m *MockPaymentGateway) AcceptSignature(orderID, paymentID, signature string) {
	m.mu.Lock()
	m.signatures[orderID+":"+paymentID] = signature
	m.mu.Unlock()
}

// VerifySignature checks against the registered signatures
func (m *MockPaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.signatures[orderID+":"+paymentID] == signature
}

// OrderAmount returns the amount recorded for an order (for testing assertions)
func (m *MockPaymentGateway) OrderAmount(orderID string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	amount, ok := m.orders[orderID]
	return amount, ok
}

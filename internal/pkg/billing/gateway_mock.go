package billing

import (
	"context"
	"fmt"
	"sync"
)

// MockGateway is a test double for Gateway that records calls and returns
// configurable results.
type MockGateway struct {
	mu sync.Mutex

	// Customers collects created customer IDs keyed by email.
	Customers map[string]string
	// Subscriptions maps subscription ID to the state GetSubscription returns.
	Subscriptions map[string]*SubscriptionState
	// Events maps signature header values to the event VerifyEvent returns;
	// any other signature fails verification.
	Events map[string]*Event

	// Error fields allow tests to inject failures.
	CreateCustomerErr  error
	CreateCheckoutErr  error
	CreatePortalErr    error
	GetSubscriptionErr error

	CheckoutCalls []string
	PortalCalls   []string

	nextCustomerSeq int
}

// NewMockGateway creates a MockGateway ready for use.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Customers:     make(map[string]string),
		Subscriptions: make(map[string]*SubscriptionState),
		Events:        make(map[string]*Event),
	}
}

func (m *MockGateway) CreateCustomer(_ context.Context, email, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateCustomerErr != nil {
		return "", m.CreateCustomerErr
	}

	m.nextCustomerSeq++
	id := fmt.Sprintf("cus_mock_%d", m.nextCustomerSeq)
	m.Customers[email] = id
	return id, nil
}

func (m *MockGateway) CreateCheckoutSession(_ context.Context, customerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateCheckoutErr != nil {
		return "", m.CreateCheckoutErr
	}
	m.CheckoutCalls = append(m.CheckoutCalls, customerID)
	return "https://checkout.example/" + customerID, nil
}

func (m *MockGateway) CreatePortalSession(_ context.Context, customerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreatePortalErr != nil {
		return "", m.CreatePortalErr
	}
	m.PortalCalls = append(m.PortalCalls, customerID)
	return "https://portal.example/" + customerID, nil
}

func (m *MockGateway) GetSubscription(_ context.Context, subscriptionID string) (*SubscriptionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetSubscriptionErr != nil {
		return nil, m.GetSubscriptionErr
	}
	state, ok := m.Subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("unknown subscription %s", subscriptionID)
	}
	copied := *state
	return &copied, nil
}

func (m *MockGateway) VerifyEvent(_ []byte, signatureHeader string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.Events[signatureHeader]
	if !ok {
		return nil, ErrInvalidSignature
	}
	return ev, nil
}

package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velolab/velolab/app/models"
	"github.com/velolab/velolab/internal/pkg/billing"
	"github.com/velolab/velolab/internal/pkg/usercontext"
)

// memoryBillingRepo is a minimal in-memory billing.Repository for handler tests.
type memoryBillingRepo struct {
	users         map[uint]*models.User
	subscriptions map[uint]*models.Subscription
	webhookEvents map[string]*models.WebhookEvent
	nextID        uint
}

func newMemoryBillingRepo() *memoryBillingRepo {
	return &memoryBillingRepo{
		users:         make(map[uint]*models.User),
		subscriptions: make(map[uint]*models.Subscription),
		webhookEvents: make(map[string]*models.WebhookEvent),
	}
}

func (m *memoryBillingRepo) GetUserByID(userID uint) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *memoryBillingRepo) GetSubscriptionByUserID(userID uint) (*models.Subscription, error) {
	s, ok := m.subscriptions[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memoryBillingRepo) GetSubscriptionByCustomerID(customerID string) (*models.Subscription, error) {
	for _, s := range m.subscriptions {
		if s.StripeCustomerID == customerID {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryBillingRepo) UpsertSubscription(sub *models.Subscription) error {
	if existing, ok := m.subscriptions[sub.UserID]; ok {
		existing.StripeCustomerID = sub.StripeCustomerID
		*sub = *existing
		return nil
	}
	m.nextID++
	sub.ID = m.nextID
	copied := *sub
	m.subscriptions[sub.UserID] = &copied
	return nil
}

func (m *memoryBillingRepo) SaveSubscription(sub *models.Subscription) error {
	copied := *sub
	m.subscriptions[sub.UserID] = &copied
	return nil
}

func (m *memoryBillingRepo) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	if stored, ok := m.webhookEvents[event.ProviderEventID]; ok {
		return false, stored, nil
	}
	m.nextID++
	event.ID = m.nextID
	copied := *event
	m.webhookEvents[event.ProviderEventID] = &copied
	return true, &copied, nil
}

func (m *memoryBillingRepo) MarkWebhookProcessed(id uint, processingError string) error {
	for _, ev := range m.webhookEvents {
		if ev.ID == id {
			now := time.Now()
			ev.ProcessedAt = &now
			ev.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func billingTestApp(t *testing.T, userID uint) (*fiber.App, *memoryBillingRepo, *billing.MockGateway) {
	t.Helper()

	repo := newMemoryBillingRepo()
	gateway := billing.NewMockGateway()
	svc := billing.NewService(repo, gateway, &billing.Config{
		PriceID:    "price_test",
		SuccessURL: "http://localhost/app",
		CancelURL:  "http://localhost/paywall",
	})
	SetBillingController(NewBillingController(svc))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
				UserID:     userID,
				Username:   "tester",
				IsLoggedIn: true,
			})
		}
		return c.Next()
	})
	app.Post("/api/v1/billing/checkout", HandleCreateCheckout)
	app.Post("/api/v1/billing/portal", HandleCreatePortal)
	app.Post("/webhooks/stripe", HandleStripeWebhook)

	return app, repo, gateway
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestCheckoutReturnsURL(t *testing.T) {
	app, repo, _ := billingTestApp(t, 1)
	repo.users[1] = &models.User{ID: 1, Name: "Tester", Email: "tester@example.com"}

	req := httptest.NewRequest("POST", "/api/v1/billing/checkout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Contains(t, body["url"], "https://checkout.example/")
}

func TestCheckoutUnauthenticated(t *testing.T) {
	app, _, _ := billingTestApp(t, 0)

	req := httptest.NewRequest("POST", "/api/v1/billing/checkout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCheckoutUserMissing(t *testing.T) {
	app, _, _ := billingTestApp(t, 7)

	req := httptest.NewRequest("POST", "/api/v1/billing/checkout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCheckoutAlreadySubscribed(t *testing.T) {
	app, repo, _ := billingTestApp(t, 1)
	repo.users[1] = &models.User{ID: 1, Name: "Tester", Email: "tester@example.com"}
	repo.subscriptions[1] = &models.Subscription{
		ID: 1, UserID: 1, StripeCustomerID: "cus_1", StripeSubscriptionID: "sub_1",
		Status: models.SubscriptionStatusActive, CurrentPeriodEnd: time.Now().Add(time.Hour),
	}

	req := httptest.NewRequest("POST", "/api/v1/billing/checkout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPortalWithoutSubscription(t *testing.T) {
	app, _, _ := billingTestApp(t, 1)

	req := httptest.NewRequest("POST", "/api/v1/billing/portal", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPortalReturnsURL(t *testing.T) {
	app, repo, _ := billingTestApp(t, 1)
	repo.subscriptions[1] = &models.Subscription{
		ID: 1, UserID: 1, StripeCustomerID: "cus_1", StripeSubscriptionID: "sub_1",
		Status: models.SubscriptionStatusActive, CurrentPeriodEnd: time.Now().Add(time.Hour),
	}

	req := httptest.NewRequest("POST", "/api/v1/billing/portal", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Contains(t, body["url"], "cus_1")
}

func TestWebhookInvalidSignature(t *testing.T) {
	app, _, _ := billingTestApp(t, 0)

	req := httptest.NewRequest("POST", "/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWebhookAcknowledgesVerifiedEvent(t *testing.T) {
	app, repo, gateway := billingTestApp(t, 0)
	repo.subscriptions[1] = &models.Subscription{
		ID: 1, UserID: 1, StripeCustomerID: "cus_1",
		StripeSubscriptionID: models.PendingSubscriptionID,
		Status:               models.SubscriptionStatusIncomplete,
	}
	gateway.Events["sig_ok"] = &billing.Event{
		ID:   "evt_1",
		Type: "customer.subscription.updated",
		Kind: billing.EventSubscriptionChanged,
		Subscription: &billing.SubscriptionState{
			ID: "sub_1", CustomerID: "cus_1",
			Status:           models.SubscriptionStatusActive,
			CurrentPeriodEnd: time.Now().Add(30 * 24 * time.Hour),
		},
	}

	req := httptest.NewRequest("POST", "/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "sig_ok")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["received"])
	assert.Equal(t, "sub_1", repo.subscriptions[1].StripeSubscriptionID)
	assert.Equal(t, models.SubscriptionStatusActive, repo.subscriptions[1].Status)
}

package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way Stripe's SDK expects:
// v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func signPayload(payload []byte, secret string, ts time.Time) string {
	signed := fmt.Sprintf("%d.%s", ts.Unix(), payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signed))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func testGateway() Gateway {
	return NewStripeGateway(&Config{
		WebhookSecret: testWebhookSecret,
	})
}

func TestVerifyEventValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	ev, err := testGateway().VerifyEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventIgnored, ev.Kind)
}

func TestVerifyEventToleratesAPIVersionDrift(t *testing.T) {
	// Endpoints stay pinned to the API version they were created with, so a
	// validly signed event from an older version must still verify.
	payload := []byte(`{"id":"evt_1","api_version":"2023-10-16","type":"invoice.paid","data":{"object":{}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	ev, err := testGateway().VerifyEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
}

func TestVerifyEventBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{}}}`)
	header := signPayload(payload, "whsec_other_secret", time.Now())

	_, err := testGateway().VerifyEvent(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyEventTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	tampered := []byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{}}}`)
	_, err := testGateway().VerifyEvent(tampered, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyEventStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now().Add(-24*time.Hour))

	_, err := testGateway().VerifyEvent(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func makeStripeEvent(t *testing.T, eventType string, object any) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	return &stripe.Event{
		ID:   "evt_test",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestDecodeEventCheckoutCompleted(t *testing.T) {
	ev, err := decodeEvent(makeStripeEvent(t, "checkout.session.completed", map[string]any{
		"id":           "cs_1",
		"mode":         "subscription",
		"customer":     map[string]any{"id": "cus_1"},
		"subscription": map[string]any{"id": "sub_1"},
	}))
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutCompleted, ev.Kind)
	require.NotNil(t, ev.Checkout)
	assert.Equal(t, "cs_1", ev.Checkout.SessionID)
	assert.Equal(t, "cus_1", ev.Checkout.CustomerID)
	assert.Equal(t, "sub_1", ev.Checkout.SubscriptionID)
	assert.True(t, ev.Checkout.SubscriptionMode)
}

func TestDecodeEventPaymentModeCheckout(t *testing.T) {
	ev, err := decodeEvent(makeStripeEvent(t, "checkout.session.completed", map[string]any{
		"id":   "cs_1",
		"mode": "payment",
	}))
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutCompleted, ev.Kind)
	assert.False(t, ev.Checkout.SubscriptionMode)
	assert.Empty(t, ev.Checkout.SubscriptionID)
}

func TestDecodeEventSubscriptionUpdated(t *testing.T) {
	periodEnd := time.Now().Add(30 * 24 * time.Hour).Unix()
	ev, err := decodeEvent(makeStripeEvent(t, "customer.subscription.updated", map[string]any{
		"id":       "sub_1",
		"status":   "active",
		"customer": map[string]any{"id": "cus_1"},
		"items": map[string]any{
			"data": []map[string]any{
				{"id": "si_1", "current_period_end": periodEnd},
			},
		},
	}))
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionChanged, ev.Kind)
	require.NotNil(t, ev.Subscription)
	assert.Equal(t, "sub_1", ev.Subscription.ID)
	assert.Equal(t, "cus_1", ev.Subscription.CustomerID)
	assert.Equal(t, "active", ev.Subscription.Status)
	assert.Equal(t, time.Unix(periodEnd, 0), ev.Subscription.CurrentPeriodEnd)
}

func TestDecodeEventSubscriptionDeleted(t *testing.T) {
	ev, err := decodeEvent(makeStripeEvent(t, "customer.subscription.deleted", map[string]any{
		"id":       "sub_1",
		"status":   "canceled",
		"customer": map[string]any{"id": "cus_1"},
	}))
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionDeleted, ev.Kind)
	assert.Equal(t, "canceled", ev.Subscription.Status)
}

func TestDecodeEventUnknownType(t *testing.T) {
	ev, err := decodeEvent(makeStripeEvent(t, "invoice.paid", map[string]any{"id": "in_1"}))
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, ev.Kind)
	assert.Nil(t, ev.Checkout)
	assert.Nil(t, ev.Subscription)
}

func TestSubscriptionPeriodEndLegacyFallback(t *testing.T) {
	// Older API payloads carry current_period_end at the top level and have
	// no period on the items
	periodEnd := time.Now().Add(7 * 24 * time.Hour).Unix()
	raw := json.RawMessage(fmt.Sprintf(`{"id":"sub_1","status":"active","current_period_end":%d}`, periodEnd))

	end := subscriptionPeriodEnd(&stripe.Subscription{}, raw)
	assert.Equal(t, time.Unix(periodEnd, 0), end)
}

func TestSubscriptionPeriodEndPrefersLatestItem(t *testing.T) {
	early := time.Now().Add(24 * time.Hour).Unix()
	late := time.Now().Add(60 * 24 * time.Hour).Unix()
	sub := &stripe.Subscription{
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{CurrentPeriodEnd: early},
				{CurrentPeriodEnd: late},
			},
		},
	}

	end := subscriptionPeriodEnd(sub, nil)
	assert.Equal(t, time.Unix(late, 0), end)
}

func TestSubscriptionPeriodEndMissing(t *testing.T) {
	end := subscriptionPeriodEnd(&stripe.Subscription{}, nil)
	assert.True(t, end.IsZero())
}

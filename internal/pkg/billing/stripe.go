package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Gateway abstracts the hosted billing provider. The production implementation
// talks to Stripe; tests use MockGateway.
type Gateway interface {
	// CreateCustomer registers a new billing customer and returns its ID.
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	// CreateCheckoutSession creates a subscription-mode hosted checkout for
	// the customer and returns the hosted URL.
	CreateCheckoutSession(ctx context.Context, customerID string) (string, error)
	// CreatePortalSession creates a self-service portal session for an
	// existing customer and returns the hosted URL.
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
	// GetSubscription fetches the current subscription object by ID.
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionState, error)
	// VerifyEvent checks the payload signature and decodes the event into the
	// closed variant set. Returns ErrInvalidSignature on verification failure.
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}

type stripeGateway struct {
	cfg *Config
}

// NewStripeGateway creates the Stripe-backed gateway. The API key is set
// process-wide, matching the stripe-go package-level client usage.
func NewStripeGateway(cfg *Config) Gateway {
	stripe.Key = cfg.APIKey
	return &stripeGateway{cfg: cfg}
}

func (g *stripeGateway) CreateCustomer(_ context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}
	return c.ID, nil
}

func (g *stripeGateway) CreateCheckoutSession(_ context.Context, customerID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(g.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
	}
	s, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.URL, nil
}

func (g *stripeGateway) CreatePortalSession(_ context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(g.cfg.PortalReturnURL),
	}
	s, err := portalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return s.URL, nil
}

func (g *stripeGateway) GetSubscription(_ context.Context, subscriptionID string) (*SubscriptionState, error) {
	sub, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch subscription %s: %w", subscriptionID, err)
	}
	return normalizeSubscription(sub, nil), nil
}

func (g *stripeGateway) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	// Stripe pins each webhook endpoint to an API version; a dashboard-side
	// version bump must not start rejecting otherwise valid signatures.
	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return decodeEvent(&stripeEvent)
}

// decodeEvent maps a verified Stripe event onto the closed variant set.
// Unhandled event types become EventIgnored and are acknowledged without any
// state change.
func decodeEvent(stripeEvent *stripe.Event) (*Event, error) {
	ev := &Event{
		ID:      stripeEvent.ID,
		Type:    string(stripeEvent.Type),
		Payload: stripeEvent.Data.Raw,
	}

	switch stripeEvent.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("decode checkout session payload: %w", err)
		}
		info := &CheckoutInfo{
			SessionID:        session.ID,
			SubscriptionMode: session.Mode == stripe.CheckoutSessionModeSubscription,
		}
		if session.Customer != nil {
			info.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			info.SubscriptionID = session.Subscription.ID
		}
		ev.Kind = EventCheckoutCompleted
		ev.Checkout = info

	case "customer.subscription.created", "customer.subscription.updated":
		state, err := decodeSubscriptionPayload(stripeEvent.Data.Raw)
		if err != nil {
			return nil, err
		}
		ev.Kind = EventSubscriptionChanged
		ev.Subscription = state

	case "customer.subscription.deleted":
		state, err := decodeSubscriptionPayload(stripeEvent.Data.Raw)
		if err != nil {
			return nil, err
		}
		ev.Kind = EventSubscriptionDeleted
		ev.Subscription = state

	default:
		ev.Kind = EventIgnored
	}

	return ev, nil
}

func decodeSubscriptionPayload(raw json.RawMessage) (*SubscriptionState, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription payload: %w", err)
	}
	return normalizeSubscription(&sub, raw), nil
}

func normalizeSubscription(sub *stripe.Subscription, raw json.RawMessage) *SubscriptionState {
	state := &SubscriptionState{
		ID:     sub.ID,
		Status: string(sub.Status),
	}
	if sub.Customer != nil {
		state.CustomerID = sub.Customer.ID
	}
	state.CurrentPeriodEnd = subscriptionPeriodEnd(sub, raw)
	return state
}

// subscriptionPeriodEnd extracts the billing period end. Newer gateway API
// versions carry the period on the subscription items, older payloads still
// have a top-level current_period_end; both are honored, preferring the
// latest item period.
func subscriptionPeriodEnd(sub *stripe.Subscription, raw json.RawMessage) time.Time {
	var end int64
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item != nil && item.CurrentPeriodEnd > end {
				end = item.CurrentPeriodEnd
			}
		}
	}
	if end == 0 && raw != nil {
		var legacy struct {
			CurrentPeriodEnd int64 `json:"current_period_end"`
		}
		if err := json.Unmarshal(raw, &legacy); err == nil {
			end = legacy.CurrentPeriodEnd
		}
	}
	if end == 0 {
		return time.Time{}
	}
	return time.Unix(end, 0)
}

package billing

import (
	"errors"
	"time"

	"github.com/velolab/velolab/internal/pkg/env"
)

// Errors surfaced by the billing service. The controller maps these onto HTTP
// statuses; anything else is treated as an upstream gateway failure (500).
var (
	ErrUnauthorized      = errors.New("billing: unauthorized")
	ErrUserNotFound      = errors.New("billing: user not found")
	ErrAlreadySubscribed = errors.New("billing: user already has an active subscription")
	ErrNoSubscription    = errors.New("billing: no subscription found")
	ErrInvalidSignature  = errors.New("billing: invalid webhook signature")
)

// Config collects the gateway settings consumed by the billing service. It is
// built once at process start and passed by reference instead of reading
// process-wide environment from inside the components.
type Config struct {
	APIKey          string
	WebhookSecret   string
	PriceID         string
	SuccessURL      string
	CancelURL       string
	PortalReturnURL string
}

// ConfigFromEnv assembles the billing configuration from environment values.
// Malformed values are rejected by the gateway at call time; no local
// validation happens here.
func ConfigFromEnv() *Config {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:"+env.GetEnv("APP_PORT", "4000"))
	return &Config{
		APIKey:          env.GetEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret:   env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		PriceID:         env.GetEnv("STRIPE_PRICE_ID", ""),
		SuccessURL:      base + "/app?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       base + "/paywall",
		PortalReturnURL: base + "/app",
	}
}

// EventKind is the closed set of webhook event variants the reconciler
// handles. Everything else decodes to EventIgnored.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventCheckoutCompleted
	EventSubscriptionChanged
	EventSubscriptionDeleted
)

// CheckoutInfo carries the fields of a completed checkout session the
// reconciler needs.
type CheckoutInfo struct {
	SessionID      string
	CustomerID     string
	SubscriptionID string
	// Subscription-mode sessions are the only ones that mutate local state.
	SubscriptionMode bool
}

// SubscriptionState is the normalized shape of a gateway subscription object,
// whether fetched directly or carried on an event payload.
type SubscriptionState struct {
	ID               string
	CustomerID       string
	Status           string
	CurrentPeriodEnd time.Time
}

// Event is the decoded, signature-verified webhook event. Exactly one of
// Checkout/Subscription is set depending on Kind; Ignored events carry only
// ID and Type.
type Event struct {
	ID           string
	Type         string
	Kind         EventKind
	Checkout     *CheckoutInfo
	Subscription *SubscriptionState
	Payload      []byte
}

package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/velolab/velolab/app/models"
	"github.com/velolab/velolab/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// Service implements the subscription lifecycle: checkout/portal session
// creation and webhook-driven reconciliation of local state against the
// billing gateway.
type Service struct {
	repo    Repository
	gateway Gateway
	cfg     *Config
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, gateway Gateway, cfg *Config) *Service {
	return &Service{repo: repo, gateway: gateway, cfg: cfg}
}

// NewServiceFromDB creates a billing service wired to the Stripe gateway.
func NewServiceFromDB(db *gorm.DB, cfg *Config) *Service {
	return NewService(NewRepository(db), NewStripeGateway(cfg), cfg)
}

// StartCheckout produces a hosted checkout URL for the fixed subscription
// price. At most one external customer is created per user: once a customer
// ID is stored it is reused on every subsequent attempt.
func (s *Service) StartCheckout(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", ErrUnauthorized
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	sub, err := s.repo.GetSubscriptionByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if sub != nil && entitlements.IsEntitledStatus(sub.Status) {
		return "", ErrAlreadySubscribed
	}

	customerID := ""
	if sub != nil {
		customerID = sub.StripeCustomerID
	}
	if customerID == "" {
		// Customer creation and the local upsert below are not transactional:
		// a crash in between leaves an orphaned gateway customer that needs
		// manual reconciliation.
		customerID, err = s.gateway.CreateCustomer(ctx, user.Email, user.Name)
		if err != nil {
			return "", fmt.Errorf("create billing customer: %w", err)
		}
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	if sub == nil {
		sub = &models.Subscription{
			UserID:               userID,
			StripeCustomerID:     customerID,
			StripeSubscriptionID: models.PendingSubscriptionID,
			Status:               models.SubscriptionStatusIncomplete,
			CurrentPeriodEnd:     time.Now(),
		}
	} else {
		sub.StripeCustomerID = customerID
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return "", fmt.Errorf("persist subscription: %w", err)
	}

	return url, nil
}

// OpenPortal produces a hosted self-service portal URL for a user with an
// existing billing customer. No local state is mutated.
func (s *Service) OpenPortal(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", ErrUnauthorized
	}

	sub, err := s.repo.GetSubscriptionByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoSubscription
		}
		return "", err
	}
	if sub.StripeCustomerID == "" {
		return "", ErrNoSubscription
	}

	url, err := s.gateway.CreatePortalSession(ctx, sub.StripeCustomerID)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return url, nil
}

// Outcome reports what a webhook delivery did. The gateway always receives
// a success acknowledgment once the signature verified, so redeliveries stop;
// Outcome exists for logging and tests.
type Outcome struct {
	EventType string
	Duplicate bool
	Ignored   bool
	Applied   bool
}

// ProcessEvent verifies, records and reconciles one webhook delivery.
// Unverified payloads never mutate the store. Every applied update is a full
// overwrite of subscription ID, status and period end from gateway data, so
// replaying an event is a no-op; a stale event delivered after a fresher one
// can still regress state since no event ordering guard exists.
func (s *Service) ProcessEvent(ctx context.Context, payload []byte, signatureHeader string) (*Outcome, error) {
	ev, err := s.gateway.VerifyEvent(payload, signatureHeader)
	if err != nil {
		return nil, err
	}

	eventID := ev.ID
	if eventID == "" {
		sum := sha256.Sum256(payload)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}
	created, stored, err := s.repo.CreateWebhookEventIfNotExists(&models.WebhookEvent{
		ProviderEventID: eventID,
		EventType:       ev.Type,
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("persist webhook event: %w", err)
	}

	outcome := &Outcome{EventType: ev.Type}
	if !created {
		outcome.Duplicate = true
		// Only a fully processed event short-circuits. A redelivery of an
		// event whose first attempt failed (or never finished) gets another
		// try, otherwise the state transition it carries is lost:
		// Stripe retries on our 400, but the dedupe row already exists.
		if stored.ProcessedAt != nil && stored.ProcessingError == "" {
			return outcome, nil
		}
	}

	procErr := s.dispatch(ctx, ev, outcome)
	s.markProcessed(stored.ID, procErr)
	if procErr != nil {
		return nil, procErr
	}
	return outcome, nil
}

func (s *Service) dispatch(ctx context.Context, ev *Event, outcome *Outcome) error {
	switch ev.Kind {
	case EventCheckoutCompleted:
		if !ev.Checkout.SubscriptionMode || ev.Checkout.SubscriptionID == "" {
			outcome.Ignored = true
			return nil
		}
		state, err := s.gateway.GetSubscription(ctx, ev.Checkout.SubscriptionID)
		if err != nil {
			return fmt.Errorf("fetch subscription for completed checkout: %w", err)
		}
		return s.applyState(ev.Checkout.CustomerID, state, outcome)

	case EventSubscriptionChanged:
		return s.applyState(ev.Subscription.CustomerID, ev.Subscription, outcome)

	case EventSubscriptionDeleted:
		canceled := *ev.Subscription
		canceled.Status = models.SubscriptionStatusCanceled
		return s.applyState(ev.Subscription.CustomerID, &canceled, outcome)

	default:
		log.Infof("[Billing] ignoring webhook event type %s", ev.Type)
		outcome.Ignored = true
		return nil
	}
}

// applyState overwrites the local row matching the gateway customer. A
// missing local row is acknowledged without mutation; if local row creation
// lagged behind the gateway this silently drops the transition.
func (s *Service) applyState(customerID string, state *SubscriptionState, outcome *Outcome) error {
	sub, err := s.repo.GetSubscriptionByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Billing] no local subscription for customer %s, event dropped", customerID)
			outcome.Ignored = true
			return nil
		}
		return err
	}

	if state.ID != "" {
		sub.StripeSubscriptionID = state.ID
	}
	sub.Status = state.Status
	sub.CurrentPeriodEnd = state.CurrentPeriodEnd
	if err := s.repo.SaveSubscription(sub); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	outcome.Applied = true
	return nil
}

func (s *Service) markProcessed(webhookEventID uint, procErr error) {
	msg := ""
	if procErr != nil {
		msg = procErr.Error()
	}
	if err := s.repo.MarkWebhookProcessed(webhookEventID, msg); err != nil {
		log.Errorf("[Billing] mark webhook processed: %v", err)
	}
}

// GetSubscription returns the stored subscription for a user, or nil when
// none exists.
func (s *Service) GetSubscription(_ context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscriptionByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// HasActiveSubscription is the access gate: it reports whether the user
// currently holds a paid entitlement.
func (s *Service) HasActiveSubscription(ctx context.Context, userID uint) (bool, error) {
	sub, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return entitlements.HasActiveSubscription(sub, time.Now()), nil
}

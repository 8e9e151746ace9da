package entitlements

import (
	"strings"
	"time"

	"github.com/velolab/velolab/app/models"
)

// IsEntitledStatus reports whether a subscription status alone grants paid
// access. This is the loose predicate used by checkout to reject users who
// already hold a live subscription.
func IsEntitledStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}

// HasActiveSubscription is the canonical entitlement predicate used to gate
// paid functionality: the status must be entitling AND the current billing
// period must not have lapsed. A nil subscription means no entitlement.
func HasActiveSubscription(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	return IsEntitledStatus(sub.Status) && sub.CurrentPeriodEnd.After(now)
}

package models

import "time"

// Subscription statuses. Values coming from the billing gateway pass through
// verbatim; these constants cover the set the application branches on.
const (
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusActive     = "active"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
)

// PendingSubscriptionID is the sentinel stored until the gateway confirms
// subscription creation via webhook.
const PendingSubscriptionID = "pending"

// Subscription mirrors the billing gateway's subscription state for one user.
// There is at most one row per user; cancellation is a status transition,
// never a row removal. Status and CurrentPeriodEnd are authoritative only as
// of the last processed webhook event.
type Subscription struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"uniqueIndex" json:"user_id"`
	StripeCustomerID     string    `gorm:"type:varchar(191);not null;index" json:"stripe_customer_id"`
	StripeSubscriptionID string    `gorm:"type:varchar(191);not null;default:'pending'" json:"stripe_subscription_id"`
	Status               string    `gorm:"type:varchar(32);not null;default:'incomplete';index" json:"status"`
	CurrentPeriodEnd     time.Time `gorm:"type:timestamp" json:"current_period_end"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

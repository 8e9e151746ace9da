package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/internal/pkg/billing"
	"github.com/velolab/velolab/internal/pkg/database"
	"github.com/velolab/velolab/internal/pkg/usercontext"
)

// BillingController handles checkout, portal and webhook endpoints
type BillingController struct {
	svc *billing.Service
}

// NewBillingController creates a new billing controller instance
func NewBillingController(svc *billing.Service) *BillingController {
	return &BillingController{svc: svc}
}

// Global controller instance
var billingController *BillingController

// InitializeBillingController initializes the global billing controller
func InitializeBillingController() {
	cfg := billing.ConfigFromEnv()
	billingController = NewBillingController(billing.NewServiceFromDB(database.GetDB(), cfg))
}

// SetBillingController replaces the global instance, used by tests
func SetBillingController(bc *BillingController) {
	billingController = bc
}

// Service exposes the billing service for route-level middleware
func (bc *BillingController) Service() *billing.Service {
	return bc.svc
}

// GetBillingController returns the global billing controller instance
func GetBillingController() *BillingController {
	if billingController == nil {
		InitializeBillingController()
	}
	return billingController
}

// HandleCreateCheckout starts a Stripe Checkout session for the
// logged-in user and returns the redirect URL.
func HandleCreateCheckout(c *fiber.Ctx) error {
	return GetBillingController().CreateCheckout(c)
}

// HandleCreatePortal opens a Stripe billing portal session for the
// logged-in subscriber and returns the redirect URL.
func HandleCreatePortal(c *fiber.Ctx) error {
	return GetBillingController().CreatePortal(c)
}

// HandleStripeWebhook receives signed Stripe events and feeds them into
// the billing service.
func HandleStripeWebhook(c *fiber.Ctx) error {
	return GetBillingController().StripeWebhook(c)
}

func (bc *BillingController) CreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	ctx, cancel := context.WithTimeout(c.Context(), 20*time.Second)
	defer cancel()

	url, err := bc.svc.StartCheckout(ctx, userCtx.UserID)
	if err != nil {
		return billingError(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

func (bc *BillingController) CreatePortal(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	ctx, cancel := context.WithTimeout(c.Context(), 20*time.Second)
	defer cancel()

	url, err := bc.svc.OpenPortal(ctx, userCtx.UserID)
	if err != nil {
		return billingError(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

func (bc *BillingController) StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	ctx, cancel := context.WithTimeout(c.Context(), 20*time.Second)
	defer cancel()

	if _, err := bc.svc.ProcessEvent(ctx, payload, signature); err != nil {
		// Stripe retries on non-2xx; signature failures and processing
		// errors both get a 400 so the event is redelivered
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"received": true})
}

// billingError maps service errors onto HTTP statuses
func billingError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, billing.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, billing.ErrUserNotFound), errors.Is(err, billing.ErrNoSubscription):
		status = fiber.StatusNotFound
	case errors.Is(err, billing.ErrAlreadySubscribed), errors.Is(err, billing.ErrInvalidSignature):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/velolab/velolab/internal/pkg/billing"
	"github.com/velolab/velolab/internal/pkg/constants"
	"github.com/velolab/velolab/internal/pkg/usercontext"
)

// RequireSubscription gates paid functionality behind the entitlement check.
// The subscription row is read on every request; between a billing-side
// change and webhook delivery the stored state may be transiently stale.
func RequireSubscription(svc *billing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiRequest := strings.HasPrefix(c.Path(), "/api/")

		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			if apiRequest {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error":   "unauthorized",
					"message": "login required",
				})
			}
			return c.Redirect(constants.LoginRoute, fiber.StatusSeeOther)
		}

		active, err := svc.HasActiveSubscription(c.Context(), userCtx.UserID)
		if err != nil {
			log.Errorf("[AccessGate] entitlement lookup for user %d: %v", userCtx.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_server_error",
				"message": "entitlement check failed",
			})
		}
		if !active {
			if apiRequest {
				return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
					"error":   "subscription_required",
					"message": "active subscription required",
					"paywall": constants.PaywallRoute,
				})
			}
			return c.Redirect(constants.PaywallRoute, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

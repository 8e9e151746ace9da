package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/app/repository"
	"github.com/velolab/velolab/internal/pkg/usercontext"
	"github.com/velolab/velolab/internal/pkg/utils"
)

// HandleUserProfile renders the profile page with subscription status
func HandleUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	sub, _ := GetBillingController().svc.GetSubscription(ctx, user.ID)

	avatar := user.AvatarURL
	if avatar == "" {
		avatar = utils.GetGravatarURL(user.Email, 160)
	}

	data := pageData(c, "Profile | VeloLab", fiber.Map{
		"User":         user,
		"AvatarURL":    avatar,
		"Subscription": sub,
		"CSRFToken":    csrfToken(c),
	})
	return c.Render("app/profile", data, "layouts/app")
}

// HandleAPISubscriptionStatus returns the current subscription state as JSON
func HandleAPISubscriptionStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	bc := GetBillingController()
	sub, err := bc.svc.GetSubscription(ctx, userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load subscription"})
	}
	if sub == nil {
		return c.JSON(fiber.Map{"subscribed": false})
	}

	active, err := bc.svc.HasActiveSubscription(ctx, userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load subscription"})
	}

	return c.JSON(fiber.Map{
		"subscribed":         active,
		"status":             sub.Status,
		"current_period_end": sub.CurrentPeriodEnd,
	})
}

package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/internal/pkg/env"
)

// HandleStart renders the public landing page
func HandleStart(c *fiber.Ctx) error {
	data := pageData(c, "VeloLab - Performance Analytics for Endurance Teams", fiber.Map{
		"IsDev": env.IsDev(),
	})
	return c.Render("index", data, "layouts/main")
}

// HandlePricing renders the public pricing page
func HandlePricing(c *fiber.Ctx) error {
	data := pageData(c, "Pricing | VeloLab", fiber.Map{
		"PriceMonthly": env.GetEnv("PLAN_PRICE_DISPLAY", "29"),
	})
	return c.Render("pricing", data, "layouts/main")
}

// HandlePaywall renders the subscribe page shown to logged-in users
// without an active subscription.
func HandlePaywall(c *fiber.Ctx) error {
	data := pageData(c, "Subscribe | VeloLab", fiber.Map{
		"CSRFToken": csrfToken(c),
	})
	return c.Render("paywall", data, "layouts/main")
}

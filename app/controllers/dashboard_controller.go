package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/internal/pkg/performance"
)

// HandleAppDashboard renders the team dashboard shell; the page loads its
// numbers from the JSON endpoints below.
func HandleAppDashboard(c *fiber.Ctx) error {
	athletes := performance.Roster()
	data := pageData(c, "Dashboard | VeloLab", fiber.Map{
		"Summary":  performance.Summarize(athletes),
		"Athletes": athletes,
	})
	return c.Render("app/dashboard", data, "layouts/app")
}

// HandleAPITeamSummary returns the dashboard header aggregates
func HandleAPITeamSummary(c *fiber.Ctx) error {
	athletes := performance.Roster()
	return c.JSON(fiber.Map{
		"summary": performance.Summarize(athletes),
	})
}

// HandleAPIRoster returns the full roster with readiness metrics
func HandleAPIRoster(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"athletes": performance.Roster(),
	})
}

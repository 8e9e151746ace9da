package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/internal/pkg/nutrition"
)

// HandleNutritionView renders the weekly nutrition calendar page
func HandleNutritionView(c *fiber.Ctx) error {
	week := nutrition.WeekFor(nutritionDate(c))
	data := pageData(c, "Nutrition | VeloLab", fiber.Map{
		"Week": week,
	})
	return c.Render("app/nutrition", data, "layouts/app")
}

// HandleAPINutritionWeek returns the calendar week containing the
// requested date (query param "date", default today).
func HandleAPINutritionWeek(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"week": nutrition.WeekFor(nutritionDate(c)),
	})
}

func nutritionDate(c *fiber.Ctx) time.Time {
	if raw := c.Query("date"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			return d
		}
	}
	return time.Now()
}

package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/internal/pkg/performance"
)

// HandleAthleteView renders the athlete detail page
func HandleAthleteView(c *fiber.Ctx) error {
	athlete, err := athleteFromParams(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("app/not_found", pageData(c, "Not found | VeloLab", nil), "layouts/app")
	}

	data := pageData(c, athlete.Name+" | VeloLab", fiber.Map{
		"Athlete":   athlete,
		"LoadTrend": performance.LoadTrend(athlete, 12),
	})
	return c.Render("app/athlete", data, "layouts/app")
}

// HandleAPIAthlete returns one athlete's profile and metrics
func HandleAPIAthlete(c *fiber.Ctx) error {
	athlete, err := athleteFromParams(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "athlete not found"})
	}
	return c.JSON(fiber.Map{"athlete": athlete})
}

// HandleAPIAthleteLoad returns the training load trend for the chart
func HandleAPIAthleteLoad(c *fiber.Ctx) error {
	athlete, err := athleteFromParams(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "athlete not found"})
	}

	weeks, _ := strconv.Atoi(c.Query("weeks", "12"))
	return c.JSON(fiber.Map{
		"athlete_id": athlete.ID,
		"trend":      performance.LoadTrend(athlete, weeks),
	})
}

func athleteFromParams(c *fiber.Ctx) (*performance.Athlete, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, errors.New("invalid athlete id")
	}
	return performance.GetAthlete(uint(id))
}

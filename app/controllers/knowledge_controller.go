package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/internal/pkg/knowledge"
)

// HandleKnowledgeView renders the research library page
func HandleKnowledgeView(c *fiber.Ctx) error {
	data := pageData(c, "Knowledge | VeloLab", fiber.Map{
		"Topics": []string{
			knowledge.TopicNutrition,
			knowledge.TopicRecovery,
			knowledge.TopicBiomechanics,
			knowledge.TopicTraining,
			knowledge.TopicPerformance,
		},
		"SourceTypes": []string{
			knowledge.SourcePeerReviewed,
			knowledge.SourceExpertConsensus,
			knowledge.SourceManufacturerData,
		},
	})
	return c.Render("app/knowledge", data, "layouts/app")
}

// HandleAPIKnowledgeSearch searches the research library. Query params:
// q (text), topic, source (both optional filters).
func HandleAPIKnowledgeSearch(c *fiber.Ctx) error {
	results := knowledge.Search(c.Query("q"), knowledge.Filter{
		Topic:      c.Query("topic"),
		SourceType: c.Query("source"),
	})
	return c.JSON(fiber.Map{
		"results": results,
		"total":   len(results),
	})
}

// HandleAPIKnowledgeRecommendation returns the fueling recommendation with
// its evidence panel.
func HandleAPIKnowledgeRecommendation(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"recommendation": knowledge.FuelingRecommendation(),
	})
}

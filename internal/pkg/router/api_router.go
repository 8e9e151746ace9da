package router

import (
	"github.com/velolab/velolab/app/controllers"
	"github.com/velolab/velolab/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "VeloLab API",
		})
	})

	v1 := api.Group("/v1")

	// Billing endpoints require a session but not a subscription: checkout
	// is how an unsubscribed user becomes one.
	billingGroup := v1.Group("/billing", middleware.RequireAPISessionAuth)
	billingGroup.Post("/checkout", controllers.HandleCreateCheckout)
	billingGroup.Post("/portal", controllers.HandleCreatePortal)
	billingGroup.Get("/subscription", controllers.HandleAPISubscriptionStatus)

	// Everything product-facing sits behind the access gate
	requireSub := middleware.RequireSubscription(controllers.GetBillingController().Service())
	gated := v1.Group("", middleware.RequireAPISessionAuth, requireSub)

	gated.Get("/team/summary", controllers.HandleAPITeamSummary)
	gated.Get("/team/roster", controllers.HandleAPIRoster)
	gated.Get("/athletes/:id", controllers.HandleAPIAthlete)
	gated.Get("/athletes/:id/load", controllers.HandleAPIAthleteLoad)
	gated.Get("/nutrition/week", controllers.HandleAPINutritionWeek)
	gated.Get("/knowledge/search", controllers.HandleAPIKnowledgeSearch)
	gated.Get("/knowledge/recommendation", controllers.HandleAPIKnowledgeRecommendation)
	gated.Post("/chat", controllers.HandleAPIChat)

	gated.Get("/forms", controllers.HandleAPIFormsList)
	gated.Post("/forms", middleware.RequireCoach, controllers.HandleAPIFormsCreate)
	gated.Get("/forms/:uuid", controllers.HandleAPIFormsGet)
	gated.Put("/forms/:uuid", middleware.RequireCoach, controllers.HandleAPIFormsUpdate)
	gated.Delete("/forms/:uuid", middleware.RequireCoach, controllers.HandleAPIFormsDelete)
	gated.Post("/forms/:uuid/entries", controllers.HandleAPIFormsSubmit)
	gated.Get("/forms/:uuid/entries", middleware.RequireCoach, controllers.HandleAPIFormsEntries)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

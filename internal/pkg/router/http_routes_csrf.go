package router

import (
	"strings"
	"time"

	"github.com/velolab/velolab/app/controllers"
	"github.com/velolab/velolab/internal/pkg/env"
	"github.com/velolab/velolab/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/webhooks/")
		},
	}

	requireSub := middleware.RequireSubscription(controllers.GetBillingController().Service())

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)

	// Paywall is visible to any logged-in user, subscribed or not
	group.Get("/paywall", middleware.RequireAuth, controllers.HandlePaywall)
	group.Get("/user/profile", middleware.RequireAuth, controllers.HandleUserProfile)

	// Gated product pages
	group.Get("/app", middleware.RequireAuth, requireSub, controllers.HandleAppDashboard)
	group.Get("/app/athletes/:id", middleware.RequireAuth, requireSub, controllers.HandleAthleteView)
	group.Get("/app/nutrition", middleware.RequireAuth, requireSub, controllers.HandleNutritionView)
	group.Get("/app/knowledge", middleware.RequireAuth, requireSub, controllers.HandleKnowledgeView)
	group.Get("/app/forms", middleware.RequireAuth, requireSub, middleware.RequireCoach, controllers.HandleFormsView)
	group.Get("/app/chat", middleware.RequireAuth, requireSub, controllers.HandleChatView)
}

package router

import (
	"github.com/velolab/velolab/app/controllers"
	"github.com/velolab/velolab/app/repository"
	"github.com/velolab/velolab/internal/pkg/database"
	"github.com/velolab/velolab/internal/pkg/middleware"
	"github.com/velolab/velolab/internal/pkg/oauth"
	"github.com/velolab/velolab/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Repositories are singletons bound to the main DB handle
	repository.InitializeFactory(database.GetDB())

	// Initialize billing controller with gateway and repository
	controllers.InitializeBillingController()

	// Initialize forms controller with repositories
	controllers.InitializeFormsController()

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; all user
	// information is available via usercontext.GetUserContext(c)
	return c.Next()
}

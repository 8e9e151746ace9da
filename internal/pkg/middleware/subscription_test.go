package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velolab/velolab/app/models"
	"github.com/velolab/velolab/internal/pkg/billing"
	"github.com/velolab/velolab/internal/pkg/usercontext"
)

// subRepo stubs billing.Repository with a single subscription row.
type subRepo struct {
	sub *models.Subscription
}

func (r *subRepo) GetUserByID(uint) (*models.User, error) { return nil, gorm.ErrRecordNotFound }

func (r *subRepo) GetSubscriptionByUserID(userID uint) (*models.Subscription, error) {
	if r.sub == nil || r.sub.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r.sub
	return &copied, nil
}

func (r *subRepo) GetSubscriptionByCustomerID(string) (*models.Subscription, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *subRepo) UpsertSubscription(*models.Subscription) error { return nil }
func (r *subRepo) SaveSubscription(*models.Subscription) error   { return nil }

func (r *subRepo) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	return true, event, nil
}

func (r *subRepo) MarkWebhookProcessed(uint, string) error { return nil }

func gateApp(sub *models.Subscription, loggedIn bool) *fiber.App {
	svc := billing.NewService(&subRepo{sub: sub}, billing.NewMockGateway(), &billing.Config{})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if loggedIn {
			c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
				UserID: 1, Username: "tester", IsLoggedIn: true,
			})
		}
		return c.Next()
	})
	handler := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/app", RequireSubscription(svc), handler)
	app.Get("/api/v1/team/summary", RequireSubscription(svc), handler)
	return app
}

func activeSub() *models.Subscription {
	return &models.Subscription{
		ID: 1, UserID: 1, StripeCustomerID: "cus_1", StripeSubscriptionID: "sub_1",
		Status: models.SubscriptionStatusActive, CurrentPeriodEnd: time.Now().Add(time.Hour),
	}
}

func TestRequireSubscriptionAllowsActive(t *testing.T) {
	app := gateApp(activeSub(), true)

	resp, err := app.Test(httptest.NewRequest("GET", "/app", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireSubscriptionRedirectsHTMLToPaywall(t *testing.T) {
	app := gateApp(nil, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/app", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/paywall", resp.Header.Get("Location"))
}

func TestRequireSubscriptionAPIGets402(t *testing.T) {
	app := gateApp(nil, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/team/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)
}

func TestRequireSubscriptionLapsedPeriodBlocked(t *testing.T) {
	sub := activeSub()
	sub.CurrentPeriodEnd = time.Now().Add(-time.Minute)
	app := gateApp(sub, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/team/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)
}

func TestRequireSubscriptionAnonymous(t *testing.T) {
	app := gateApp(nil, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/team/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/app", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

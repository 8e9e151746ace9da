package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/velolab/velolab/internal/pkg/usercontext"
)

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(usercontext.KeyFromProtected); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// ExtractUsername gets the username from Locals (set by middleware)
func ExtractUsername(c *fiber.Ctx) string {
	if userNameValue := c.Locals(usercontext.KeyUsername); userNameValue != nil {
		if userName, ok := userNameValue.(string); ok {
			return userName
		}
	}

	return ""
}

// pageData builds the base view model every HTML page expects: the page
// title, the current user context and any pending flash message.
func pageData(c *fiber.Ctx, title string, extra fiber.Map) fiber.Map {
	userCtx := usercontext.GetUserContext(c)
	data := fiber.Map{
		"Title":      title,
		"IsLoggedIn": userCtx.IsLoggedIn,
		"Username":   userCtx.Username,
		"IsAdmin":    userCtx.IsAdmin,
		"IsCoach":    userCtx.IsCoach,
		"Flash":      flash.Get(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func csrfToken(c *fiber.Ctx) string {
	if v := c.Locals("csrf"); v != nil {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

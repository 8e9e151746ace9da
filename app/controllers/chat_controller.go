package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/velolab/velolab/internal/pkg/assistant"
)

// HandleChatView renders the training assistant page
func HandleChatView(c *fiber.Ctx) error {
	data := pageData(c, "Assistant | VeloLab", fiber.Map{
		"CSRFToken": csrfToken(c),
	})
	return c.Render("app/chat", data, "layouts/app")
}

// HandleAPIChat answers a question with a canned, keyword-matched reply
func HandleAPIChat(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}

	reply := assistant.Respond(req.Message)
	return c.JSON(fiber.Map{"reply": reply})
}

package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/velolab/velolab/app/models"
	"github.com/velolab/velolab/app/repository"
	"github.com/velolab/velolab/internal/pkg/cache"
	"github.com/velolab/velolab/internal/pkg/constants"
	"github.com/velolab/velolab/internal/pkg/database"
	"github.com/velolab/velolab/internal/pkg/env"
	"github.com/velolab/velolab/internal/pkg/jobqueue"
	"github.com/velolab/velolab/internal/pkg/session"
	"github.com/velolab/velolab/internal/pkg/usercontext"
)

const (
	maxLoginAttempts    = 5
	loginThrottleWindow = 15 * time.Minute
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
		throttleKey := "login_attempts:" + email
		if n, err := cache.GetInt(throttleKey); err == nil && n >= maxLoginAttempts {
			fm["message"] = "Too many failed attempts. Please try again later."

			return flash.WithError(c, fm).Redirect("/login")
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		userRepo := repository.GetGlobalFactory().GetUserRepository()
		user, err := userRepo.GetByEmail(email)
		if err != nil {
			cache.Increment(throttleKey, loginThrottleWindow)
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.CheckPassword(c.FormValue("password")) {
			cache.Increment(throttleKey, loginThrottleWindow)
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.IsActive() {
			fm["message"] = "Please activate your account first. Check your inbox."

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(usercontext.AuthKey, true)
		sess.Set(usercontext.KeyUserID, user.ID)
		sess.Set(usercontext.KeyUsername, user.Name)
		sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
		sess.Set(usercontext.KeyIsCoach, user.IsCoach())

		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		cache.Delete(throttleKey)
		database.GetDB().Model(user).Update("last_login_at", time.Now())

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back! Ride on.",
		}

		return flash.WithSuccess(c, fm).Redirect(constants.AppRoute)
	}

	data := pageData(c, "Sign in | VeloLab", fiber.Map{
		"CSRFToken": csrfToken(c),
	})
	return c.Render("auth/login", data, "layouts/main")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "See you at the next session!",
	}

	c.Locals(usercontext.KeyFromProtected, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		user, err := models.CreateUser(c.FormValue("username"), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := user.GenerateActivationToken(); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		userRepo := repository.GetGlobalFactory().GetUserRepository()
		if err := userRepo.Create(user); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		sendActivationMail(user)

		fm := fiber.Map{
			"type":    "success",
			"message": "Account created! Check your inbox for the activation link.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	data := pageData(c, "Create account | VeloLab", fiber.Map{
		"CSRFToken": csrfToken(c),
	})
	return c.Render("auth/register", data, "layouts/main")
}

// HandleAuthActivate consumes the activation token sent by mail
func HandleAuthActivate(c *fiber.Ctx) error {
	token := c.Params("token", c.Query("token"))
	if token == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Activation token is missing",
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByActivationToken(token)
	if err != nil {
		fm := fiber.Map{
			"type": "error",
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fm["message"] = "Invalid or already used activation link"
		} else {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := userRepo.Update(user); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Your account is active. You can sign in now.",
	}
	return flash.WithSuccess(c, fm).Redirect("/login")
}

func sendActivationMail(user *models.User) {
	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
	link := fmt.Sprintf("%s/activate/%s", domain, user.ActivationToken)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>welcome to VeloLab! Confirm your email to activate your account:</p><p><a href=\"%s\">%s</a></p>",
		user.Name, link, link,
	)

	if err := jobqueue.EnqueueMail(user.Email, "Activate your VeloLab account", body); err != nil {
		// Delivery is retried by the queue; enqueue failure only loses the mail
		fmt.Printf("failed to enqueue activation mail for %s: %v\n", user.Email, err)
	}
}

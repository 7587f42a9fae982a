package identity

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// LogoutFunc tears down session-scoped state when a principal logs out.
type LogoutFunc func(ctx context.Context, sessionID string)

func RegisterRoutes(r fiber.Router, svc *Service, session fiber.Handler, onLogout LogoutFunc) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": "login"})
	})

	r.Get("/signup", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": "signup"})
	})

	r.Post("/signup", func(c *fiber.Ctx) error {
		var req SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		_, err := svc.Signup(c.Context(), req)
		if errors.Is(err, ErrUsernameTaken) {
			return fiber.NewError(fiber.StatusBadRequest, "User already exists. Please choose a different username.")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Error signing up. Please try again.")
		}
		return c.Redirect("/")
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "username and password required")
		}
		user, token, err := svc.Login(c.Context(), req)
		if errors.Is(err, ErrUnknownUser) {
			return fiber.NewError(fiber.StatusUnauthorized, "Username not found. Kindly Signup or check the Credentials properly")
		}
		if errors.Is(err, ErrWrongPassword) {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong password.")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error logging in. Please try again.")
		}
		return c.JSON(fiber.Map{"page": "home", "user": user, "token": token})
	})

	r.Get("/home", session, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"page":     "home",
			"username": c.Locals("username"),
			"email":    c.Locals("email"),
			"role":     c.Locals("role"),
		})
	})

	r.Get("/internal-navigation", session, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": "internal-navigation"})
	})

	// Logout takes no auth gate of its own: an expired or absent token still
	// lands back on the login view. State teardown only runs for a live session.
	r.Get("/logout", func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token != "" {
			if claims, err := svc.ParseToken(token); err == nil && onLogout != nil {
				onLogout(c.Context(), claims.SessionID)
			}
		}
		return c.Redirect("/")
	})
}

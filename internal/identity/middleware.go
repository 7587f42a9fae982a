package identity

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionMiddleware validates bearer tokens and stores the session principal
// in locals. Unauthenticated requests are redirected to the login view.
func SessionMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return c.Redirect("/")
		}

		parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			return c.Redirect("/")
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid {
			return c.Redirect("/")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("session_id", claims.SessionID)
		c.Locals("username", claims.Username)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

// RequireCapability gates a route on the session principal's role policy.
// Denials are plain messages, not redirects.
func RequireCapability(cap Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if !Role(role).Can(cap) {
			return fiber.NewError(fiber.StatusForbidden, "Access denied. Admins only.")
		}
		return c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

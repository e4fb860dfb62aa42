package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/auth"
)

// IdentityLocalKey is the key under which the authenticated identity is
// stored in Fiber's context locals.
const IdentityLocalKey = "identity"

const bearerPrefix = "Bearer "

// Authenticate validates the bearer token of every request passing through
// it and stores the resulting identity in context locals. Any failure
// (missing header, malformed token, bad signature, wrong issuer or audience)
// produces the same uniform 401 body with no detail leaked.
func Authenticate(authn *auth.TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return unauthorized(c)
		}

		raw := strings.TrimSpace(header[len(bearerPrefix):])
		identity, err := authn.Authenticate(c.UserContext(), raw)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(IdentityLocalKey, identity)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Missing or invalid token",
	})
}

// IdentityFromCtx extracts the identity stored by Authenticate, or nil.
func IdentityFromCtx(c *fiber.Ctx) *auth.Identity {
	if v := c.Locals(IdentityLocalKey); v != nil {
		if id, ok := v.(*auth.Identity); ok {
			return id
		}
	}
	return nil
}

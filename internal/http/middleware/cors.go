package middleware

import "github.com/gofiber/fiber/v2"

// CORS permits cross-origin requests from any origin. Preflight OPTIONS
// requests get a bare 200 and are not routed further, so they never hit the
// authentication middleware or the model routes.
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Origin, X-Requested-With, Content-Type, Accept, Authorization")
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MethodOverride rewrites a POST request's method from a `_method` form or
// query value before routing. HTML forms can only submit GET/POST, so edit
// and delete forms post with `_method=PATCH` or `_method=DELETE`.
func MethodOverride() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost {
			override := c.FormValue("_method")
			if override == "" {
				override = c.Query("_method")
			}
			switch strings.ToUpper(override) {
			case fiber.MethodPatch, fiber.MethodPut, fiber.MethodDelete:
				c.Method(strings.ToUpper(override))
			}
		}
		return c.Next()
	}
}

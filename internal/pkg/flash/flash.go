package flash

import (
	"github.com/gofiber/fiber/v2"
	sflash "github.com/sujit-baniya/flash"
)

// Flash message key in locals
const FlashKey = "flash"

// Set sets a flash message for the current request only
func Set(c *fiber.Ctx, message fiber.Map) {
	c.Locals(FlashKey, message)
}

// Get returns the message set for this request, or the one carried over
// from the previous redirect.
func Get(c *fiber.Ctx) fiber.Map {
	if m, ok := c.Locals(FlashKey).(fiber.Map); ok && m != nil {
		return m
	}
	m := sflash.Get(c)
	if len(m) == 0 {
		return nil
	}
	return m
}

// RedirectError redirects to location with an error message in the flash cookie.
func RedirectError(c *fiber.Ctx, location, message string) error {
	return sflash.WithError(c, fiber.Map{"type": "error", "message": message}).Redirect(location)
}

// RedirectSuccess redirects to location with a success message in the flash cookie.
func RedirectSuccess(c *fiber.Ctx, location, message string) error {
	return sflash.WithSuccess(c, fiber.Map{"type": "success", "message": message}).Redirect(location)
}

package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/theme"
)

func HandleGetTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": theme.Current()})
}

func HandleToggleTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": theme.Toggle()})
}

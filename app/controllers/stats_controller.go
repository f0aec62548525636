package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
)

// HandleGetStats returns the compression counters.
func HandleGetStats(c *fiber.Ctx) error {
	data := statistics.GetStatisticsData()
	return c.JSON(fiber.Map{
		"statistics":        data,
		"active_workspaces": services.Store.Len(),
	})
}

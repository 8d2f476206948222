package handlers

import (
	"strconv"

	"guilde-api/internal/core/services"
	"guilde-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the admin dashboard endpoint
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns dashboard statistics for the given year
// (?year=, defaults to the current year)
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	year, _ := strconv.Atoi(c.Query("year", "0"))

	stats, err := h.dashboardService.GetStats(c.Context(), year)
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve dashboard statistics")
	}

	return response.Success(c, "Dashboard statistics retrieved successfully", stats)
}

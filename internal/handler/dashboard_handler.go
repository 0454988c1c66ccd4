package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	userService      *service.UserService
}

func NewDashboardHandler(dashboardService *service.DashboardService, userService *service.UserService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		userService:      userService,
	}
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		return serviceError(c, err)
	}

	dashboard, err := h.dashboardService.GetDashboard(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(dashboard, ""))
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/service"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

type UserHandler struct {
	userService *service.UserService
	validator   *utils.Validator
}

func NewUserHandler(userService *service.UserService, validator *utils.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(user, ""))
}

// UpdateMyProfile accepts multipart form data: name and phone fields plus an
// optional profile_image file.
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	req := models.UpdateProfileRequest{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		MobileNo:  c.FormValue("mobile_no"),
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	image, err := c.FormFile("profile_image")
	if err != nil {
		image = nil
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, req, image)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(user, "Profile updated successfully"))
}

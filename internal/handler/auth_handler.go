package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/service"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

type AuthHandler struct {
	authService  *service.AuthService
	eventService *service.EventService
	validator    *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, eventService *service.EventService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		eventService: eventService,
		validator:    validator,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	user, err := h.authService.Register(req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(user,
		"Registration successful. Please check your email for the verification code."))
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req models.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.authService.VerifyOTP(req.Email, req.OTP); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Email verified successfully. You can now log in."))
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req models.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.authService.ResendOTP(c.Context(), req.Email, c.IP()); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "A new verification code has been sent to your email."))
}

// Login returns the token and profile; sellers also get their events so the
// client can land on the dashboard without a second round trip.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	auth, err := h.authService.Login(req)
	if err != nil {
		return serviceError(c, err)
	}

	data := fiber.Map{
		"token": auth.Token,
		"user":  auth.User,
	}
	if auth.User.Role == models.RoleSeller {
		events, err := h.eventService.GetUserEvents(auth.User.ID)
		if err != nil {
			return serviceError(c, err)
		}
		data["events"] = events
	}

	return c.JSON(models.SuccessResponse(data, "Login successful"))
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.authService.ForgotPassword(c.Context(), req.Email, c.IP()); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "A password reset code has been sent to your email."))
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.authService.ResetPassword(req); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Password has been reset successfully. You can now log in."))
}

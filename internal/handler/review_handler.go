package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/service"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
	userService   *service.UserService
	validator     *utils.Validator
}

func NewReviewHandler(reviewService *service.ReviewService, userService *service.UserService, validator *utils.Validator) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		userService:   userService,
		validator:     validator,
	}
}

// optionalViewer loads the caller's profile when the request carried a valid
// token; anonymous requests get a nil viewer.
func (h *ReviewHandler) optionalViewer(c *fiber.Ctx) (*models.User, error) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return nil, nil
	}
	return h.userService.GetProfile(userID)
}

func pageLink(c *fiber.Ctx, page, pageSize int) *string {
	link := fmt.Sprintf("%s%s?page=%d&page_size=%d", c.BaseURL(), c.Path(), page, pageSize)
	return &link
}

// ListReviews pages an event's reviews with next/previous links.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	viewer, err := h.optionalViewer(c)
	if err != nil {
		return serviceError(c, err)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", strconv.Itoa(service.DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = service.DefaultPageSize
	}
	if pageSize > service.MaxPageSize {
		pageSize = service.MaxPageSize
	}

	reviews, total, err := h.reviewService.List(viewer, eventID, page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}

	var links models.PageLinks
	if int64(page*pageSize) < total {
		links.Next = pageLink(c, page+1, pageSize)
	}
	if page > 1 {
		links.Previous = pageLink(c, page-1, pageSize)
	}

	return c.JSON(models.PaginatedResponse{
		Links:   links,
		Count:   total,
		Results: reviews,
	})
}

func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		return serviceError(c, err)
	}
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	var req models.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	review, err := h.reviewService.Create(c.Context(), user, eventID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(review, "Review posted successfully"))
}

func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		return serviceError(c, err)
	}

	reviewID, err := strconv.ParseUint(c.Params("reviewID"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid review ID"))
	}

	var req models.ReviewUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	review, err := h.reviewService.Update(user, uint(reviewID), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(review, "Review updated successfully"))
}

func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		return serviceError(c, err)
	}

	reviewID, err := strconv.ParseUint(c.Params("reviewID"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid review ID"))
	}

	if err := h.reviewService.Delete(user, uint(reviewID)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Review deleted successfully"))
}

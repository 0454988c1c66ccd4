package handler

import (
	"encoding/json"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/service"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

type EventHandler struct {
	eventService *service.EventService
	userService  *service.UserService
	validator    *utils.Validator
}

func NewEventHandler(eventService *service.EventService, userService *service.UserService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		userService:  userService,
		validator:    validator,
	}
}

func (h *EventHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}
	return h.userService.GetProfile(userID)
}

// parseServices reads the "services" multipart field, a JSON array of
// {name, description} objects. An absent field means no services.
func (h *EventHandler) parseServices(c *fiber.Ctx) ([]models.ServiceInput, error) {
	raw := c.FormValue("services")
	if raw == "" {
		return []models.ServiceInput{}, nil
	}

	var inputs []models.ServiceInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "services must be a JSON array of {name, description} objects")
	}
	for _, in := range inputs {
		if err := h.validator.Struct(in); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid service entry: "+in.Name)
		}
	}
	return inputs, nil
}

// parseRetainIDs reads "existing_gallery_ids", a JSON array of image IDs to
// keep. Absent means keep everything as is; an empty array deletes all.
func parseRetainIDs(c *fiber.Ctx) (*[]uint, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	values, ok := form.Value["existing_gallery_ids"]
	if !ok || len(values) == 0 {
		return nil, nil
	}

	var ids []uint
	if err := json.Unmarshal([]byte(values[0]), &ids); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "existing_gallery_ids must be a JSON array of image IDs")
	}
	if ids == nil {
		ids = []uint{}
	}
	return &ids, nil
}

func galleryFiles(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File["gallery_images"]
}

func eventIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid event ID")
	}
	return uint(id), nil
}

// CreateEvent handles the multipart event publish: scalar fields, a services
// JSON field, an optional logo file and up to five gallery_images files.
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}

	req := models.EventCreateRequest{
		EventTitle:  c.FormValue("event_title"),
		BrandName:   c.FormValue("brand_name"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	services, err := h.parseServices(c)
	if err != nil {
		return err
	}

	logo, err := c.FormFile("logo")
	if err != nil {
		logo = nil
	}

	event, err := h.eventService.CreateEvent(c.Context(), user, req, services, logo, galleryFiles(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(event, "Event created successfully"))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	req := models.EventUpdateRequest{
		EventTitle:  c.FormValue("event_title"),
		BrandName:   c.FormValue("brand_name"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	services, err := h.parseServices(c)
	if err != nil {
		return err
	}
	retainIDs, err := parseRetainIDs(c)
	if err != nil {
		return err
	}

	logo, err := c.FormFile("logo")
	if err != nil {
		logo = nil
	}

	event, err := h.eventService.UpdateEvent(c.Context(), user, eventID, req, services, retainIDs, logo, galleryFiles(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event updated successfully"))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	if err := h.eventService.DeleteEvent(user, eventID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Event deleted successfully"))
}

func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.eventService.ListEvents(c.Query("search"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(events, ""))
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.GetEventDetail(eventID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, ""))
}

func (h *EventHandler) Suggestions(c *fiber.Ctx) error {
	suggestions, err := h.eventService.Suggestions(c.Query("q"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(suggestions, ""))
}

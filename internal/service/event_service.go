package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
	"github.com/evenzo/evenzo-backend/pkg/storage"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

type EventService struct {
	eventRepo   *repository.EventRepository
	serviceRepo *repository.ServiceRepository
	reviewRepo  *repository.ReviewRepository
	storage     storage.ObjectStorage
	logger      *zap.SugaredLogger
}

func NewEventService(
	eventRepo *repository.EventRepository,
	serviceRepo *repository.ServiceRepository,
	reviewRepo *repository.ReviewRepository,
	store storage.ObjectStorage,
	logger *zap.SugaredLogger,
) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		serviceRepo: serviceRepo,
		reviewRepo:  reviewRepo,
		storage:     store,
		logger:      logger,
	}
}

// resolveServices validates every named service against the fixed catalog
// before any write happens. Unknown names fail the whole operation.
func (s *EventService) resolveServices(inputs []models.ServiceInput) ([]repository.ServicePair, error) {
	pairs := make([]repository.ServicePair, 0, len(inputs))
	seen := make(map[models.ServiceName]struct{}, len(inputs))

	for _, in := range inputs {
		name, err := models.ParseServiceName(in.Name)
		if err != nil {
			valid := make([]string, len(models.AllServiceNames))
			for i, n := range models.AllServiceNames {
				valid[i] = string(n)
			}
			return nil, fmt.Errorf("%w: service %q does not exist, must be one of: %s",
				ErrValidation, in.Name, strings.Join(valid, ", "))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		svc, err := s.serviceRepo.GetByName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: service %q does not exist", ErrValidation, in.Name)
		}
		pairs = append(pairs, repository.ServicePair{Service: *svc, Description: in.Description})
	}
	return pairs, nil
}

func (s *EventService) uploadGallery(ctx context.Context, files []*multipart.FileHeader) ([]models.GalleryImage, []string, error) {
	images := make([]models.GalleryImage, 0, len(files))
	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := fmt.Sprintf("uploads/event_gallery/%s-%s", utils.GenerateRandomString(10), file.Filename)
		url, err := uploadImage(ctx, s.storage, key, file)
		if err != nil {
			s.cleanupObjects(ctx, keys)
			return nil, nil, fmt.Errorf("failed to upload gallery image: %w", err)
		}
		keys = append(keys, key)
		images = append(images, models.GalleryImage{Image: url})
	}
	return images, keys, nil
}

func (s *EventService) cleanupObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warnw("orphaned object cleanup failed", "key", key, "error", err)
		}
	}
}

// CreateEvent publishes a seller's single event with its services and
// gallery. All request validation happens before the first write.
func (s *EventService) CreateEvent(
	ctx context.Context,
	user *models.User,
	req models.EventCreateRequest,
	serviceInputs []models.ServiceInput,
	logo *multipart.FileHeader,
	gallery []*multipart.FileHeader,
) (*models.EventResponse, error) {
	if user.Role != models.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers can create events", ErrPermission)
	}

	exists, err := s.eventRepo.ExistsForUser(user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEventLimit
	}

	pairs, err := s.resolveServices(serviceInputs)
	if err != nil {
		return nil, err
	}

	if len(gallery) > models.MaxGalleryImages {
		return nil, fmt.Errorf("%w: you can upload a maximum of %d images", ErrValidation, models.MaxGalleryImages)
	}
	if logo != nil {
		if err := validateImageFile(logo); err != nil {
			return nil, err
		}
	}
	for _, file := range gallery {
		if err := validateImageFile(file); err != nil {
			return nil, err
		}
	}

	var uploadedKeys []string
	logoURL := ""
	if logo != nil {
		key := fmt.Sprintf("uploads/logos/%s-%s", utils.GenerateRandomString(10), logo.Filename)
		logoURL, err = uploadImage(ctx, s.storage, key, logo)
		if err != nil {
			return nil, fmt.Errorf("failed to upload logo: %w", err)
		}
		uploadedKeys = append(uploadedKeys, key)
	}

	images, galleryKeys, err := s.uploadGallery(ctx, gallery)
	if err != nil {
		s.cleanupObjects(ctx, uploadedKeys)
		return nil, err
	}
	uploadedKeys = append(uploadedKeys, galleryKeys...)

	event := &models.Event{
		UserID:      user.ID,
		EventTitle:  req.EventTitle,
		BrandName:   req.BrandName,
		Description: req.Description,
		Location:    req.Location,
		Logo:        logoURL,
		IsActive:    true,
	}

	if err := s.eventRepo.CreateWithRelations(event, pairs, images); err != nil {
		s.cleanupObjects(ctx, uploadedKeys)
		// The unique index on user_id closes the race between two
		// concurrent creates passing the existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEventLimit
		}
		s.logger.Errorw("event creation failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Infow("event created", "event_id", event.ID, "user_id", user.ID)
	return s.buildResponse(event.ID)
}

// UpdateEvent applies the scalar edit plus the service and gallery
// reconciliation described in the repository layer. Validation — unknown
// services, oversized batches, a total above the gallery cap — rejects the
// whole operation before any upload or row mutation.
func (s *EventService) UpdateEvent(
	ctx context.Context,
	user *models.User,
	eventID uint,
	req models.EventUpdateRequest,
	serviceInputs []models.ServiceInput,
	retainIDs *[]uint,
	logo *multipart.FileHeader,
	gallery []*multipart.FileHeader,
) (*models.EventResponse, error) {
	if user.Role != models.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers can edit events", ErrPermission)
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event not found", ErrNotFound)
	}
	if event.UserID != user.ID {
		return nil, fmt.Errorf("%w: you can only edit your own events", ErrPermission)
	}

	pairs, err := s.resolveServices(serviceInputs)
	if err != nil {
		return nil, err
	}

	if len(gallery) > models.MaxGalleryImages {
		return nil, fmt.Errorf("%w: you can upload a maximum of %d images", ErrValidation, models.MaxGalleryImages)
	}

	// Cap the total, not just the new batch: retained + new must fit.
	retained := 0
	if retainIDs != nil {
		keep := make(map[uint]struct{}, len(*retainIDs))
		for _, id := range *retainIDs {
			keep[id] = struct{}{}
		}
		for _, img := range event.GalleryImages {
			if _, ok := keep[img.ID]; ok {
				retained++
			}
		}
	}
	if retained+len(gallery) > models.MaxGalleryImages {
		return nil, fmt.Errorf("%w: an event can have at most %d gallery images (%d retained, %d new)",
			ErrValidation, models.MaxGalleryImages, retained, len(gallery))
	}

	if logo != nil {
		if err := validateImageFile(logo); err != nil {
			return nil, err
		}
	}
	for _, file := range gallery {
		if err := validateImageFile(file); err != nil {
			return nil, err
		}
	}

	var uploadedKeys []string
	if logo != nil {
		key := fmt.Sprintf("uploads/logos/%s-%s", utils.GenerateRandomString(10), logo.Filename)
		url, err := uploadImage(ctx, s.storage, key, logo)
		if err != nil {
			return nil, fmt.Errorf("failed to upload logo: %w", err)
		}
		uploadedKeys = append(uploadedKeys, key)
		event.Logo = url
	}

	images, galleryKeys, err := s.uploadGallery(ctx, gallery)
	if err != nil {
		s.cleanupObjects(ctx, uploadedKeys)
		return nil, err
	}
	uploadedKeys = append(uploadedKeys, galleryKeys...)

	if req.EventTitle != "" {
		event.EventTitle = req.EventTitle
	}
	if req.BrandName != "" {
		event.BrandName = req.BrandName
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	// Detach preloaded children so Save touches scalars only; the
	// reconciliation owns the child rows.
	event.Services = nil
	event.GalleryImages = nil

	if err := s.eventRepo.UpdateWithRelations(event, pairs, images, retainIDs); err != nil {
		s.cleanupObjects(ctx, uploadedKeys)
		s.logger.Errorw("event update failed", "event_id", eventID, "error", err)
		return nil, err
	}

	return s.buildResponse(event.ID)
}

func (s *EventService) DeleteEvent(user *models.User, eventID uint) error {
	if user.Role != models.RoleSeller {
		return fmt.Errorf("%w: only sellers can delete events", ErrPermission)
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return fmt.Errorf("%w: event not found", ErrNotFound)
	}
	if event.UserID != user.ID {
		return fmt.Errorf("%w: you can only delete your own events", ErrPermission)
	}

	if err := s.eventRepo.Delete(eventID); err != nil {
		s.logger.Errorw("event deletion failed", "event_id", eventID, "error", err)
		return err
	}
	s.logger.Infow("event deleted", "event_id", eventID, "user_id", user.ID)
	return nil
}

// ListEvents returns all events, optionally filtered by a search query over
// brand name and owner name.
func (s *EventService) ListEvents(search string) ([]models.EventResponse, error) {
	events, err := s.eventRepo.Search(strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		resp, err := s.withReviewAggregates(&events[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// GetEventDetail fetches an event and counts the view: every detail fetch
// increments the counter by exactly one, repeat viewers included.
func (s *EventService) GetEventDetail(eventID uint) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event not found", ErrNotFound)
	}

	if err := s.eventRepo.IncrementViewCount(eventID); err != nil {
		return nil, err
	}
	event.ViewCount++

	return s.withReviewAggregates(event)
}

func (s *EventService) GetUserEvents(userID uint) ([]models.EventResponse, error) {
	events, err := s.eventRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		resp, err := s.withReviewAggregates(&events[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// Suggestions returns search completions once the query has at least two
// characters.
func (s *EventService) Suggestions(query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []string{}, nil
	}
	return s.eventRepo.Suggestions(query, 8)
}

func (s *EventService) buildResponse(eventID uint) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	return s.withReviewAggregates(event)
}

func (s *EventService) withReviewAggregates(event *models.Event) (*models.EventResponse, error) {
	resp := models.NewEventResponse(event)

	ratingCount, err := s.reviewRepo.CountApprovedByEvent(event.ID)
	if err != nil {
		return nil, err
	}
	commentCount, err := s.reviewRepo.CountApprovedNonEmptyComments(event.ID)
	if err != nil {
		return nil, err
	}
	resp.RatingCount = ratingCount
	resp.CommentCount = commentCount
	return &resp, nil
}

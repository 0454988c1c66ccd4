package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
	"github.com/evenzo/evenzo-backend/pkg/ratelimit"
)

const (
	// Authors may edit their review for a day after posting; staff any time.
	ReviewEditWindow = 24 * time.Hour

	// Per-user cap on new reviews.
	ReviewRateLimit  = 3
	ReviewRateWindow = 24 * time.Hour

	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ReviewService struct {
	reviewRepo *repository.ReviewRepository
	eventRepo  *repository.EventRepository
	limiter    ratelimit.Limiter
	logger     *zap.SugaredLogger
}

func NewReviewService(reviewRepo *repository.ReviewRepository, eventRepo *repository.EventRepository, limiter ratelimit.Limiter, logger *zap.SugaredLogger) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		eventRepo:  eventRepo,
		limiter:    limiter,
		logger:     logger,
	}
}

// List pages an event's reviews newest-first. Staff and the event owner see
// everything; other viewers see approved reviews plus their own.
func (s *ReviewService) List(viewer *models.User, eventID uint, page, pageSize int) ([]models.ReviewResponse, int64, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: event not found", ErrNotFound)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var viewerID uint
	seeAll := false
	if viewer != nil {
		viewerID = viewer.ID
		seeAll = viewer.IsStaff() || viewer.ID == event.UserID
	}

	reviews, total, err := s.reviewRepo.ListVisible(eventID, viewerID, seeAll, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, models.NewReviewResponse(&reviews[i]))
	}
	return responses, total, nil
}

// Create posts a review. One review per user per event; the unique index
// backs up the existence check under concurrency.
func (s *ReviewService) Create(ctx context.Context, user *models.User, eventID uint, req models.ReviewCreateRequest) (*models.ReviewResponse, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event not found", ErrNotFound)
	}

	allowed, err := s.limiter.Allow(ctx, fmt.Sprintf("review-create:%d", user.ID), ReviewRateLimit, ReviewRateWindow)
	if err != nil {
		s.logger.Warnw("rate limiter unavailable", "error", err)
	} else if !allowed {
		return nil, fmt.Errorf("%w: you are posting reviews too quickly, please try again later", ErrRateLimited)
	}

	exists, err := s.reviewRepo.ExistsForEventAndUser(event.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already reviewed this event", ErrConflict)
	}

	review := &models.Review{
		EventID:    event.ID,
		UserID:     user.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsApproved: true,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already reviewed this event", ErrConflict)
		}
		s.logger.Errorw("review creation failed", "event_id", event.ID, "user_id", user.ID, "error", err)
		return nil, err
	}

	review.User = *user
	resp := models.NewReviewResponse(review)
	return &resp, nil
}

// Update edits a review. Authors may edit within the edit window; staff may
// edit any review at any time, including its approval flag.
func (s *ReviewService) Update(user *models.User, reviewID uint, req models.ReviewUpdateRequest) (*models.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: review not found", ErrNotFound)
	}

	if !user.IsStaff() {
		if review.UserID != user.ID {
			return nil, fmt.Errorf("%w: you can only edit your own reviews", ErrPermission)
		}
		if time.Since(review.CreatedAt) > ReviewEditWindow {
			return nil, fmt.Errorf("%w: reviews can only be edited within 24 hours of posting", ErrPermission)
		}
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if req.IsApproved != nil && user.IsStaff() {
		review.IsApproved = *req.IsApproved
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	resp := models.NewReviewResponse(review)
	return &resp, nil
}

// Delete removes a review. Authors may delete their own at any time; staff
// may delete any.
func (s *ReviewService) Delete(user *models.User, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return fmt.Errorf("%w: review not found", ErrNotFound)
	}

	if !user.IsStaff() && review.UserID != user.ID {
		return fmt.Errorf("%w: you can only delete your own reviews", ErrPermission)
	}
	return s.reviewRepo.Delete(reviewID)
}

package service

import (
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
)

const recentReviewsPerEvent = 5

type DashboardService struct {
	eventRepo  *repository.EventRepository
	reviewRepo *repository.ReviewRepository
	logger     *zap.SugaredLogger
}

func NewDashboardService(eventRepo *repository.EventRepository, reviewRepo *repository.ReviewRepository, logger *zap.SugaredLogger) *DashboardService {
	return &DashboardService{
		eventRepo:  eventRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// GetDashboard assembles per-event stats and the cross-event aggregates for
// a seller. The aggregate average weights each event's average by its review
// count, so an event with many reviews moves the number more than one with
// few.
func (s *DashboardService) GetDashboard(user *models.User) (*models.DashboardResponse, error) {
	if user.Role != models.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers have a dashboard", ErrPermission)
	}

	events, err := s.eventRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: you have not created any events yet", ErrNotFound)
	}

	var (
		dashboardEvents = make([]models.DashboardEvent, 0, len(events))
		eventIDs        = make([]uint, 0, len(events))
		totalViews      uint
		totalReviews    int64
		totalComments   int64
		weightedSum     float64
	)

	for i := range events {
		event := &events[i]
		eventIDs = append(eventIDs, event.ID)

		reviewCount, err := s.reviewRepo.CountByEvent(event.ID)
		if err != nil {
			return nil, err
		}
		avgRating, err := s.reviewRepo.AverageRatingByEvent(event.ID)
		if err != nil {
			return nil, err
		}
		commentCount, err := s.reviewRepo.CountNonEmptyComments(event.ID)
		if err != nil {
			return nil, err
		}
		recent, err := s.reviewRepo.RecentApproved(event.ID, recentReviewsPerEvent)
		if err != nil {
			return nil, err
		}

		recentResponses := make([]models.ReviewResponse, 0, len(recent))
		for j := range recent {
			recentResponses = append(recentResponses, models.NewReviewResponse(&recent[j]))
		}

		dashboardEvents = append(dashboardEvents, models.DashboardEvent{
			ID:        event.ID,
			BrandName: event.BrandName,
			Logo:      event.Logo,
			Location:  event.Location,
			IsActive:  event.IsActive,
			Stats: models.EventStats{
				ViewCount:     event.ViewCount,
				ReviewCount:   reviewCount,
				AverageRating: round2(avgRating),
				CommentCount:  commentCount,
			},
			RecentReviews: recentResponses,
		})

		totalViews += event.ViewCount
		totalReviews += reviewCount
		totalComments += commentCount
		// Weight with the unrounded per-event average.
		weightedSum += avgRating * float64(reviewCount)
	}

	averageRating := 0.0
	if totalReviews > 0 {
		averageRating = round2(weightedSum / float64(totalReviews))
	}

	histogram, err := s.reviewRepo.RatingHistogram(eventIDs)
	if err != nil {
		return nil, err
	}
	distribution := make(map[string]int, 5)
	for rating := 1; rating <= 5; rating++ {
		distribution[strconv.Itoa(rating)] = histogram[rating]
	}

	return &models.DashboardResponse{
		Events: dashboardEvents,
		AggregatedStats: models.AggregatedStats{
			TotalViews:         totalViews,
			TotalReviews:       totalReviews,
			AverageRating:      averageRating,
			TotalComments:      totalComments,
			TotalEvents:        len(events),
			RatingDistribution: distribution,
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

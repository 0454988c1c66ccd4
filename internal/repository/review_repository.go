package repository

import (
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("User").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ExistsForEventAndUser(eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *ReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// ListVisible pages through an event's reviews newest-first. Unless
// seeAll is set (staff or event owner), unapproved reviews are restricted
// to the viewer's own.
func (r *ReviewRepository) ListVisible(eventID, viewerID uint, seeAll bool, offset, limit int) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{}).Where("event_id = ?", eventID)
	if !seeAll {
		query = query.Where("is_approved = ? OR user_id = ?", true, viewerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepository) RecentApproved(eventID uint, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("User").
		Where("event_id = ? AND is_approved = ?", eventID, true).
		Order("created_at DESC").Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) CountByEvent(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// CountApprovedByEvent counts approved reviews only (the public aggregate).
func (r *ReviewRepository) CountApprovedByEvent(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("event_id = ? AND is_approved = ?", eventID, true).Count(&count).Error
	return count, err
}

func (r *ReviewRepository) AverageRatingByEvent(eventID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).Where("event_id = ?", eventID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *ReviewRepository) CountNonEmptyComments(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("event_id = ? AND comment <> ''", eventID).Count(&count).Error
	return count, err
}

// CountApprovedNonEmptyComments counts approved reviews with a comment (the
// public aggregate).
func (r *ReviewRepository) CountApprovedNonEmptyComments(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("event_id = ? AND is_approved = ? AND comment <> ''", eventID, true).Count(&count).Error
	return count, err
}

// RatingHistogram maps rating value -> count across the given events.
func (r *ReviewRepository) RatingHistogram(eventIDs []uint) (map[int]int, error) {
	type bucket struct {
		Rating int
		Count  int
	}
	var buckets []bucket
	err := r.db.Model(&models.Review{}).
		Where("event_id IN ?", eventIDs).
		Select("rating, COUNT(*) as count").
		Group("rating").Order("rating").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	histogram := make(map[int]int, len(buckets))
	for _, b := range buckets {
		histogram[b.Rating] = b.Count
	}
	return histogram, nil
}

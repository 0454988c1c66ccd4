package models

import (
	"time"
)

type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_user_review"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_event_user_review"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"is_approved" gorm:"default:true"`
	User       User      `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReviewCreateRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ReviewUpdateRequest is a partial update: nil fields are left untouched.
// IsApproved is honored for staff callers only.
type ReviewUpdateRequest struct {
	Rating     *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment    *string `json:"comment" validate:"omitempty,max=1000"`
	IsApproved *bool   `json:"is_approved"`
}

type ReviewResponse struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	UserID       uint      `json:"user_id"`
	UserFullName string    `json:"user_full_name"`
	UserEmail    string    `json:"user_email"`
	ProfileImage string    `json:"profile_image"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		UserFullName: r.User.FullName(),
		UserEmail:    r.User.Email,
		ProfileImage: r.User.ProfileImage,
		Rating:       r.Rating,
		Comment:      r.Comment,
		IsApproved:   r.IsApproved,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

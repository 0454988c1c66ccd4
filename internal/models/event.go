package models

import (
	"time"
)

type Event struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	EventTitle  string `json:"event_title" gorm:"size:500;not null"`
	BrandName   string `json:"brand_name" gorm:"size:100;not null"`
	Description string `json:"description" gorm:"not null"`
	Location    string `json:"location" gorm:"size:200;not null"`
	Logo        string `json:"logo"`
	ViewCount   uint   `json:"view_count" gorm:"default:0"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	User          User           `json:"-" gorm:"foreignKey:UserID"`
	Services      []EventService `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	GalleryImages []GalleryImage `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventCreateRequest carries the scalar multipart fields of an event create.
// Services and files are parsed separately by the handler.
type EventCreateRequest struct {
	EventTitle  string `json:"event_title" validate:"required,max=500"`
	BrandName   string `json:"brand_name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=10000"`
	Location    string `json:"location" validate:"required,max=200"`
}

// EventUpdateRequest mirrors the create payload. Omitted scalar fields keep
// their current value.
type EventUpdateRequest struct {
	EventTitle  string `json:"event_title" validate:"omitempty,max=500"`
	BrandName   string `json:"brand_name" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=10000"`
	Location    string `json:"location" validate:"omitempty,max=200"`
}

type EventResponse struct {
	ID               uint                   `json:"id"`
	UserID           uint                   `json:"user_id"`
	UserEmail        string                 `json:"user_email"`
	UserFirstName    string                 `json:"user_first_name"`
	UserLastName     string                 `json:"user_last_name"`
	UserMobileNo     string                 `json:"user_mobile_no"`
	UserProfileImage string                 `json:"user_profile_image"`
	EventTitle       string                 `json:"event_title"`
	BrandName        string                 `json:"brand_name"`
	Description      string                 `json:"description"`
	Location         string                 `json:"location"`
	LogoURL          string                 `json:"logo_url"`
	Services         []EventServiceResponse `json:"services"`
	GalleryImages    []GalleryImageResponse `json:"gallery_images"`
	ViewCount        uint                   `json:"view_count"`
	IsActive         bool                   `json:"is_active"`
	RatingCount      int64                  `json:"rating_count"`
	CommentCount     int64                  `json:"comment_count"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// NewEventResponse flattens a preloaded event row. Review aggregates are
// filled in by the service.
func NewEventResponse(e *Event) EventResponse {
	resp := EventResponse{
		ID:               e.ID,
		UserID:           e.UserID,
		UserEmail:        e.User.Email,
		UserFirstName:    e.User.FirstName,
		UserLastName:     e.User.LastName,
		UserMobileNo:     e.User.MobileNo,
		UserProfileImage: e.User.ProfileImage,
		EventTitle:       e.EventTitle,
		BrandName:        e.BrandName,
		Description:      e.Description,
		Location:         e.Location,
		LogoURL:          e.Logo,
		ViewCount:        e.ViewCount,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}

	resp.Services = make([]EventServiceResponse, 0, len(e.Services))
	for _, es := range e.Services {
		resp.Services = append(resp.Services, EventServiceResponse{
			Name:        es.Service.Name,
			Description: es.Description,
		})
	}

	resp.GalleryImages = make([]GalleryImageResponse, 0, len(e.GalleryImages))
	for _, img := range e.GalleryImages {
		resp.GalleryImages = append(resp.GalleryImages, NewGalleryImageResponse(&img))
	}

	return resp
}

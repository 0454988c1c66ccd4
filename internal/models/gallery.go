package models

import (
	"time"
)

// MaxGalleryImages caps the live gallery size per event. The cap applies to
// the total after an update, not just the newly uploaded batch.
const MaxGalleryImages = 5

type GalleryImage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    uint      `json:"event_id" gorm:"not null;index"`
	Image      string    `json:"image" gorm:"not null"`
	Caption    string    `json:"caption" gorm:"size:255"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

type GalleryImageResponse struct {
	ID         uint      `json:"id"`
	ImageURL   string    `json:"image_url"`
	Caption    string    `json:"caption"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func NewGalleryImageResponse(img *GalleryImage) GalleryImageResponse {
	return GalleryImageResponse{
		ID:         img.ID,
		ImageURL:   img.Image,
		Caption:    img.Caption,
		IsPrimary:  img.IsPrimary,
		UploadedAt: img.UploadedAt,
	}
}

package repository

import (
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ServicePair is a resolved catalog service plus the per-event description.
type ServicePair struct {
	Service     models.Service
	Description string
}

func preloadEvent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Services.Service").
		Preload("GalleryImages", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, uploaded_at DESC")
		})
}

// CreateWithRelations persists the event together with its service
// attachments and gallery rows in one transaction.
func (r *EventRepository) CreateWithRelations(event *models.Event, services []ServicePair, images []models.GalleryImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		for _, p := range services {
			es := models.EventService{
				EventID:     event.ID,
				ServiceID:   p.Service.ID,
				Description: p.Description,
			}
			if err := tx.Create(&es).Error; err != nil {
				return err
			}
		}
		for i := range images {
			images[i].EventID = event.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateWithRelations saves the scalar fields and reconciles the service and
// gallery child rows against the supplied desired state, all in one
// transaction.
//
// Services are a full desired state: rows are keyed by service name, matched
// inputs upsert the description, and anything not named is detached.
//
// Gallery follows retain-list semantics: a nil retainIDs deletes every
// existing image (replace-all), otherwise images outside the list are
// deleted. New images are appended as fresh rows; the primary flag of
// retained rows is untouched.
func (r *EventRepository) UpdateWithRelations(event *models.Event, services []ServicePair, newImages []models.GalleryImage, retainIDs *[]uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(event).Error; err != nil {
			return err
		}

		var existing []models.EventService
		if err := tx.Preload("Service").Where("event_id = ?", event.ID).Find(&existing).Error; err != nil {
			return err
		}
		remaining := make(map[models.ServiceName]models.EventService, len(existing))
		for _, es := range existing {
			remaining[es.Service.Name] = es
		}

		for _, p := range services {
			if es, ok := remaining[p.Service.Name]; ok {
				if es.Description != p.Description {
					if err := tx.Model(&models.EventService{}).Where("id = ?", es.ID).
						Update("description", p.Description).Error; err != nil {
						return err
					}
				}
				delete(remaining, p.Service.Name)
				continue
			}
			es := models.EventService{
				EventID:     event.ID,
				ServiceID:   p.Service.ID,
				Description: p.Description,
			}
			if err := tx.Create(&es).Error; err != nil {
				return err
			}
		}

		// Prune services omitted from the new list.
		for _, es := range remaining {
			if err := tx.Delete(&models.EventService{}, es.ID).Error; err != nil {
				return err
			}
		}

		galleryQuery := tx.Where("event_id = ?", event.ID)
		if retainIDs != nil && len(*retainIDs) > 0 {
			galleryQuery = galleryQuery.Where("id NOT IN ?", *retainIDs)
		}
		if err := galleryQuery.Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}

		for i := range newImages {
			newImages[i].EventID = event.ID
			if err := tx.Create(&newImages[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := preloadEvent(r.db).First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByUserID(userID uint) ([]models.Event, error) {
	var events []models.Event
	err := preloadEvent(r.db).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *EventRepository) ExistsForUser(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// Search lists events, optionally filtered by brand name or owner name
// (case-insensitive substring match).
func (r *EventRepository) Search(query string) ([]models.Event, error) {
	db := preloadEvent(r.db).
		Joins("JOIN users ON users.id = events.user_id")

	if query != "" {
		like := "%" + query + "%"
		db = db.Where(
			"LOWER(events.brand_name) LIKE LOWER(?) OR LOWER(users.first_name) LIKE LOWER(?) OR LOWER(users.last_name) LIKE LOWER(?)",
			like, like, like,
		)
	}

	var events []models.Event
	err := db.Order("events.created_at DESC").Find(&events).Error
	return events, err
}

// Suggestions returns up to limit distinct brand names and owner full names
// matching the query.
func (r *EventRepository) Suggestions(query string, limit int) ([]string, error) {
	like := "%" + query + "%"

	var brands []string
	if err := r.db.Model(&models.Event{}).
		Where("LOWER(brand_name) LIKE LOWER(?)", like).
		Distinct().Limit(limit).Pluck("brand_name", &brands).Error; err != nil {
		return nil, err
	}

	type ownerName struct {
		FirstName string
		LastName  string
	}
	var owners []ownerName
	if err := r.db.Model(&models.Event{}).
		Joins("JOIN users ON users.id = events.user_id").
		Where("LOWER(users.first_name) LIKE LOWER(?) OR LOWER(users.last_name) LIKE LOWER(?)", like, like).
		Select("users.first_name, users.last_name").
		Distinct().Limit(limit).Scan(&owners).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(brands)+len(owners))
	suggestions := make([]string, 0, limit)
	for _, b := range brands {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		suggestions = append(suggestions, b)
	}
	for _, o := range owners {
		full := o.FirstName + " " + o.LastName
		if _, ok := seen[full]; ok {
			continue
		}
		seen[full] = struct{}{}
		suggestions = append(suggestions, full)
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// IncrementViewCount bumps the counter in place so concurrent viewers never
// lose increments to a read-modify-write race.
func (r *EventRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Event{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *EventRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventService{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
}

func (r *EventRepository) CountGalleryImages(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GalleryImage{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

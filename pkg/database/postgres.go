package database

import (
	"log"

	"github.com/evenzo/evenzo-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(databaseURL string) *gorm.DB {
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Service{},
		&models.EventService{},
		&models.GalleryImage{},
		&models.Review{},
	)
	if err != nil {
		return err
	}

	return SeedServices(db)
}

// SeedServices inserts the fixed service catalog (if missing). The set of
// offering kinds is closed; rows are never created from client input.
func SeedServices(db *gorm.DB) error {
	for _, name := range models.AllServiceNames {
		var count int64
		db.Model(&models.Service{}).Where("name = ?", name).Count(&count)
		if count == 0 {
			if err := db.Create(&models.Service{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

package repository

import (
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetByName(name models.ServiceName) (*models.Service, error) {
	var service models.Service
	err := r.db.Where("name = ?", name).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepository) GetAll() ([]models.Service, error) {
	var services []models.Service
	err := r.db.Order("id").Find(&services).Error
	return services, err
}

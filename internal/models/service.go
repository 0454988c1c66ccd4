package models

import "fmt"

// ServiceName is the closed set of offering kinds a seller can attach to an event.
type ServiceName string

const (
	ServicePhotography    ServiceName = "photography"
	ServiceCinematography ServiceName = "cinematography"
	ServiceCatering       ServiceName = "catering"
	ServiceLighting       ServiceName = "lighting"
	ServiceDJ             ServiceName = "dj"
	ServiceHallBooking    ServiceName = "hall_booking"
)

// AllServiceNames is used to seed the catalog and to build validation messages.
var AllServiceNames = []ServiceName{
	ServicePhotography,
	ServiceCinematography,
	ServiceCatering,
	ServiceLighting,
	ServiceDJ,
	ServiceHallBooking,
}

// ParseServiceName maps client input onto the catalog, exhaustively.
func ParseServiceName(s string) (ServiceName, error) {
	switch ServiceName(s) {
	case ServicePhotography, ServiceCinematography, ServiceCatering,
		ServiceLighting, ServiceDJ, ServiceHallBooking:
		return ServiceName(s), nil
	}
	return "", fmt.Errorf("unknown service %q", s)
}

type Service struct {
	ID   uint        `json:"id" gorm:"primaryKey"`
	Name ServiceName `json:"name" gorm:"size:50;unique;not null"`
}

// EventService attaches a catalog service to an event with a short free-text
// description. At most one row per (event, service) pair.
type EventService struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	EventID     uint    `json:"event_id" gorm:"not null;uniqueIndex:idx_event_service"`
	ServiceID   uint    `json:"service_id" gorm:"not null;uniqueIndex:idx_event_service"`
	Description string  `json:"description" gorm:"size:255"`
	Service     Service `json:"service" gorm:"foreignKey:ServiceID"`
}

type ServiceInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=255"`
}

type EventServiceResponse struct {
	Name        ServiceName `json:"name"`
	Description string      `json:"description"`
}

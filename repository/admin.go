package repository

import (
	"github.com/ghareeshmiti/workerconnection-backend/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IAdminRepository backs the dashboard and station management surface.
type IAdminRepository interface {
	ListWorkers(db *gorm.DB) ([]domain.Worker, error)
	CountEvents(db *gorm.DB, profileID uuid.UUID) (int64, error)
	RecentEvents(db *gorm.DB, profileID uuid.UUID, limit int) ([]domain.AttendanceEvent, error)
	AllEvents(db *gorm.DB) ([]domain.AttendanceEvent, error)
	ListEstablishments(db *gorm.DB) ([]domain.Establishment, error)
	CreateEstablishment(db *gorm.DB, name string) (*domain.Establishment, error)
	DeleteEstablishment(db *gorm.DB, name string) error
}

type AdminRepository struct {
}

func NewAdminRepository() IAdminRepository {
	return &AdminRepository{}
}

func (r *AdminRepository) ListWorkers(db *gorm.DB) ([]domain.Worker, error) {
	var workers []domain.Worker
	err := db.Preload("Authenticators").Order("worker_id ASC").Find(&workers).Error
	return workers, err
}

func (r *AdminRepository) CountEvents(db *gorm.DB, profileID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&domain.AttendanceEvent{}).
		Where("worker_id = ?", profileID).
		Count(&count).Error
	return count, err
}

func (r *AdminRepository) RecentEvents(db *gorm.DB, profileID uuid.UUID, limit int) ([]domain.AttendanceEvent, error) {
	var events []domain.AttendanceEvent
	err := db.Where("worker_id = ?", profileID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *AdminRepository) AllEvents(db *gorm.DB) ([]domain.AttendanceEvent, error) {
	var events []domain.AttendanceEvent
	err := db.Order("occurred_at DESC").Find(&events).Error
	return events, err
}

func (r *AdminRepository) ListEstablishments(db *gorm.DB) ([]domain.Establishment, error) {
	var establishments []domain.Establishment
	err := db.Order("name ASC").Find(&establishments).Error
	return establishments, err
}

func (r *AdminRepository) CreateEstablishment(db *gorm.DB, name string) (*domain.Establishment, error) {
	var count int64
	if err := db.Model(&domain.Establishment{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrEstablishmentExists
	}
	establishment := domain.Establishment{ID: uuid.New(), Name: name}
	if err := db.Create(&establishment).Error; err != nil {
		return nil, err
	}
	return &establishment, nil
}

func (r *AdminRepository) DeleteEstablishment(db *gorm.DB, name string) error {
	result := db.Where("name = ?", name).Delete(&domain.Establishment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEstablishmentNotFound
	}
	return nil
}

package repository

import (
	"errors"

	"github.com/ghareeshmiti/workerconnection-backend/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IAttendanceRepository reads and writes the append-only event log, the
// daily rollups, and the location lookups attendance derivation needs.
type IAttendanceRepository interface {
	GetProfile(db *gorm.DB, workerID string) (*domain.WorkerProfile, error)
	LockProfile(db *gorm.DB, workerID string) (*domain.WorkerProfile, error)
	LastEvent(db *gorm.DB, profileID uuid.UUID) (*domain.AttendanceEvent, error)
	InsertEvent(db *gorm.DB, event *domain.AttendanceEvent) error
	ActiveEstablishment(db *gorm.DB, profileID uuid.UUID) (*uuid.UUID, error)
	EstablishmentByName(db *gorm.DB, name string) (*domain.Establishment, error)
	GetRollupForDate(db *gorm.DB, profileID uuid.UUID, date string) (*domain.DailyRollup, error)
	SaveRollup(db *gorm.DB, rollup *domain.DailyRollup) error
}

type AttendanceRepository struct {
}

func NewAttendanceRepository() IAttendanceRepository {
	return &AttendanceRepository{}
}

func (r *AttendanceRepository) GetProfile(db *gorm.DB, workerID string) (*domain.WorkerProfile, error) {
	var profile domain.WorkerProfile
	err := db.Where("worker_id = ?", workerID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerProfileMissing
		}
		return nil, err
	}
	return &profile, nil
}

// LockProfile takes a row lock on the worker profile so concurrent toggle
// derivations for the same worker serialize instead of double-writing.
func (r *AttendanceRepository) LockProfile(db *gorm.DB, workerID string) (*domain.WorkerProfile, error) {
	var profile domain.WorkerProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("worker_id = ?", workerID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerProfileMissing
		}
		return nil, err
	}
	return &profile, nil
}

// LastEvent returns nil when the worker has no events yet.
func (r *AttendanceRepository) LastEvent(db *gorm.DB, profileID uuid.UUID) (*domain.AttendanceEvent, error) {
	var event domain.AttendanceEvent
	err := db.Where("worker_id = ?", profileID).
		Order("occurred_at DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *AttendanceRepository) InsertEvent(db *gorm.DB, event *domain.AttendanceEvent) error {
	return db.Create(event).Error
}

func (r *AttendanceRepository) ActiveEstablishment(db *gorm.DB, profileID uuid.UUID) (*uuid.UUID, error) {
	var mapping domain.WorkerMapping
	err := db.Where("worker_id = ? AND is_active = ?", profileID, true).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping.EstablishmentID, nil
}

func (r *AttendanceRepository) EstablishmentByName(db *gorm.DB, name string) (*domain.Establishment, error) {
	var establishment domain.Establishment
	err := db.Where("name = ?", name).First(&establishment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEstablishmentNotFound
		}
		return nil, err
	}
	return &establishment, nil
}

func (r *AttendanceRepository) GetRollupForDate(db *gorm.DB, profileID uuid.UUID, date string) (*domain.DailyRollup, error) {
	var rollup domain.DailyRollup
	err := db.Where("worker_id = ? AND attendance_date = ?", profileID, date).First(&rollup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rollup, nil
}

func (r *AttendanceRepository) SaveRollup(db *gorm.DB, rollup *domain.DailyRollup) error {
	return db.Save(rollup).Error
}

package services

import (
	"errors"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/response"
	"github.com/ghareeshmiti/workerconnection-backend/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// auditTrailLimit caps the per-worker audit projection at the most
// recent events.
const auditTrailLimit = 50

type IAdminService interface {
	Dashboard() ([]response.WorkerOverview, error)
	AuditTrail(workerID string) ([]domain.AttendanceEvent, error)
	ExportEvents() ([]domain.AttendanceEvent, error)
	ListStations() ([]domain.Establishment, error)
	CreateStation(name string) (*domain.Establishment, error)
	DeleteStation(name string) error
	DeleteWorker(workerID string) error
}

type AdminService struct {
	db         *gorm.DB
	adminRepo  repository.IAdminRepository
	workerRepo repository.IWorkerRepository
	attendance repository.IAttendanceRepository
	logger     *zap.Logger
}

func NewAdminService(
	db *gorm.DB,
	adminRepo repository.IAdminRepository,
	workerRepo repository.IWorkerRepository,
	attendance repository.IAttendanceRepository,
	logger *zap.Logger,
) IAdminService {
	return &AdminService{
		db:         db,
		adminRepo:  adminRepo,
		workerRepo: workerRepo,
		attendance: attendance,
		logger:     logger,
	}
}

// Dashboard projects every registered identity with its derived attendance
// state. Workers without a linked profile still appear, checked out with no
// activity.
func (s *AdminService) Dashboard() ([]response.WorkerOverview, error) {
	workers, err := s.adminRepo.ListWorkers(s.db)
	if err != nil {
		return nil, err
	}

	overviews := make([]response.WorkerOverview, 0, len(workers))
	for i := range workers {
		worker := &workers[i]
		overview := response.WorkerOverview{
			WorkerID:    worker.WorkerID,
			Status:      domain.CheckOut.Status(),
			DeviceCount: len(worker.Authenticators),
		}

		profile, err := s.attendance.GetProfile(s.db, worker.WorkerID)
		if err != nil {
			if !errors.Is(err, domain.ErrWorkerProfileMissing) {
				return nil, err
			}
			overviews = append(overviews, overview)
			continue
		}

		last, err := s.attendance.LastEvent(s.db, profile.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			ts := last.OccurredAt
			overview.Status = last.EventType.Status()
			overview.LastSeen = &ts
		}

		total, err := s.adminRepo.CountEvents(s.db, profile.ID)
		if err != nil {
			return nil, err
		}
		overview.TotalLogins = total
		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// AuditTrail returns the most recent attendance events for one worker,
// newest first. A worker without a profile has no history yet and yields
// an empty trail.
func (s *AdminService) AuditTrail(workerID string) ([]domain.AttendanceEvent, error) {
	profile, err := s.attendance.GetProfile(s.db, workerID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerProfileMissing) {
			return []domain.AttendanceEvent{}, nil
		}
		return nil, err
	}
	return s.adminRepo.RecentEvents(s.db, profile.ID, auditTrailLimit)
}

// ExportEvents returns the full attendance event history, newest first.
func (s *AdminService) ExportEvents() ([]domain.AttendanceEvent, error) {
	return s.adminRepo.AllEvents(s.db)
}

func (s *AdminService) ListStations() ([]domain.Establishment, error) {
	return s.adminRepo.ListEstablishments(s.db)
}

func (s *AdminService) CreateStation(name string) (*domain.Establishment, error) {
	return s.adminRepo.CreateEstablishment(s.db, name)
}

func (s *AdminService) DeleteStation(name string) error {
	return s.adminRepo.DeleteEstablishment(s.db, name)
}

func (s *AdminService) DeleteWorker(workerID string) error {
	s.logger.Info("removing worker and credentials", zap.String("worker_id", workerID))
	return s.workerRepo.DeleteWorker(s.db, workerID)
}

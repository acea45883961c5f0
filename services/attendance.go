package services

import (
	"errors"
	"math"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/request"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/response"
	"github.com/ghareeshmiti/workerconnection-backend/metrics"
	"github.com/ghareeshmiti/workerconnection-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultRegion is recorded when the tap carries no location hint.
const defaultRegion = "Unknown"

// IAttendanceService derives attendance state from the event log. Current
// status is not a stored flag: it is defined as the event type of the most
// recent event, defaulting to checked-out.
type IAttendanceService interface {
	Toggle(workerID string, location string) (status string, recorded bool, err error)
	Status(workerID string) (*response.StatusResponse, error)
}

type AttendanceService struct {
	db        *gorm.DB
	repo      repository.IAttendanceRepository
	publisher IAttendancePublisher
	logger    *zap.Logger
}

func NewAttendanceService(db *gorm.DB, repo repository.IAttendanceRepository, publisher IAttendancePublisher, logger *zap.Logger) IAttendanceService {
	return &AttendanceService{db: db, repo: repo, publisher: publisher, logger: logger}
}

// Toggle flips the worker between checked-in and checked-out. The returned
// status is the new state; recorded reports whether an event was actually
// written. A worker without a linked profile still authenticates; the toggle
// is reported but not recorded.
func (s *AttendanceService) Toggle(workerID string, location string) (string, bool, error) {
	var event *domain.AttendanceEvent

	err := s.db.Transaction(func(tx *gorm.DB) error {
		profile, err := s.repo.LockProfile(tx, workerID)
		if err != nil {
			return err
		}

		last, err := s.repo.LastEvent(tx, profile.ID)
		if err != nil {
			return err
		}
		newType := domain.CheckIn
		if last != nil && last.EventType == domain.CheckIn {
			newType = domain.CheckOut
		}

		establishmentID, err := s.resolveLocation(tx, profile.ID, location)
		if err != nil {
			return err
		}

		region := location
		if region == "" {
			region = defaultRegion
		}
		event = &domain.AttendanceEvent{
			WorkerRef:       profile.ID,
			EventType:       newType,
			EstablishmentID: establishmentID,
			OccurredAt:      time.Now().UTC(),
			Region:          region,
		}
		if err := s.repo.InsertEvent(tx, event); err != nil {
			return err
		}
		return s.updateRollup(tx, profile.ID, event)
	})

	if err != nil {
		if errors.Is(err, domain.ErrWorkerProfileMissing) {
			s.logger.Warn("worker profile not found, authentication successful but attendance not recorded",
				zap.String("worker_id", workerID))
			return domain.CheckIn.Status(), false, nil
		}
		return "", false, err
	}

	metrics.AttendanceEventsTotal.WithLabelValues(string(event.EventType)).Inc()
	s.publish(workerID, event)
	return event.EventType.Status(), true, nil
}

func (s *AttendanceService) Status(workerID string) (*response.StatusResponse, error) {
	profile, err := s.repo.GetProfile(s.db, workerID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerProfileMissing) {
			return &response.StatusResponse{Status: domain.CheckOut.Status()}, nil
		}
		return nil, err
	}
	last, err := s.repo.LastEvent(s.db, profile.ID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return &response.StatusResponse{Status: domain.CheckOut.Status()}, nil
	}
	ts := last.OccurredAt
	return &response.StatusResponse{Status: last.EventType.Status(), Timestamp: &ts}, nil
}

// resolveLocation prefers an explicitly named establishment, then the
// worker's active mapping, then none. An unknown explicit name degrades to
// the mapping rather than failing the tap.
func (s *AttendanceService) resolveLocation(tx *gorm.DB, profileID uuid.UUID, location string) (*uuid.UUID, error) {
	if location != "" {
		establishment, err := s.repo.EstablishmentByName(tx, location)
		if err == nil {
			id := establishment.ID
			return &id, nil
		}
		if !errors.Is(err, domain.ErrEstablishmentNotFound) {
			return nil, err
		}
	}
	return s.repo.ActiveEstablishment(tx, profileID)
}

// updateRollup maintains the per-day aggregate incrementally. A check-out
// with no prior check-in that day is accepted: the row carries only the
// checkout timestamp and the duration stays at its default. Hardware-key
// taps are not guaranteed to pair cleanly.
func (s *AttendanceService) updateRollup(tx *gorm.DB, profileID uuid.UUID, event *domain.AttendanceEvent) error {
	date := event.OccurredAt.Format("2006-01-02")
	rollup, err := s.repo.GetRollupForDate(tx, profileID, date)
	if err != nil {
		return err
	}

	ts := event.OccurredAt
	if rollup == nil {
		rollup = &domain.DailyRollup{
			WorkerRef:       profileID,
			EstablishmentID: event.EstablishmentID,
			AttendanceDate:  date,
			Status:          domain.RollupStatusPresent,
		}
		if event.EventType == domain.CheckIn {
			rollup.FirstCheckinAt = &ts
		} else {
			rollup.LastCheckoutAt = &ts
		}
		return s.repo.SaveRollup(tx, rollup)
	}

	if event.EventType == domain.CheckIn {
		if rollup.FirstCheckinAt == nil {
			rollup.FirstCheckinAt = &ts
		}
	} else {
		rollup.LastCheckoutAt = &ts
		if rollup.FirstCheckinAt != nil {
			rollup.TotalHours = roundHours(ts.Sub(*rollup.FirstCheckinAt))
		}
	}
	return s.repo.SaveRollup(tx, rollup)
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func (s *AttendanceService) publish(workerID string, event *domain.AttendanceEvent) {
	if s.publisher == nil {
		return
	}
	msg := &request.AttendanceRecordedEvent{
		WorkerID:   workerID,
		EventType:  string(event.EventType),
		Region:     event.Region,
		OccurredAt: event.OccurredAt,
	}
	if event.EstablishmentID != nil {
		msg.EstablishmentID = event.EstablishmentID.String()
	}
	if err := s.publisher.PublishAttendanceEvent(msg); err != nil {
		s.logger.Warn("failed to publish attendance event",
			zap.String("worker_id", workerID),
			zap.Error(err))
	}
}

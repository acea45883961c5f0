package services

import (
	"testing"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAuditTrail_ReturnsRecentWorkerEvents(t *testing.T) {
	profileID := uuid.New()
	otherID := uuid.New()

	attendance := newFakeAttendanceRepo()
	attendance.profile = &domain.WorkerProfile{ID: profileID, WorkerID: "W1"}

	adminRepo := &fakeAdminRepo{
		events: []domain.AttendanceEvent{
			{ID: 3, WorkerRef: profileID, EventType: domain.CheckOut, OccurredAt: time.Now().UTC()},
			{ID: 2, WorkerRef: otherID, EventType: domain.CheckIn, OccurredAt: time.Now().UTC()},
			{ID: 1, WorkerRef: profileID, EventType: domain.CheckIn, OccurredAt: time.Now().UTC().Add(-time.Hour)},
		},
	}

	svc := NewAdminService(nil, adminRepo, newFakeWorkerRepo(), attendance, zap.NewNop())
	events, err := svc.AuditTrail("W1")

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, domain.CheckOut, events[0].EventType)
	assert.Equal(t, domain.CheckIn, events[1].EventType)
	assert.Equal(t, 50, adminRepo.recentLimit)
}

func TestAuditTrail_MissingProfileYieldsEmptyTrail(t *testing.T) {
	adminRepo := &fakeAdminRepo{}

	svc := NewAdminService(nil, adminRepo, newFakeWorkerRepo(), newFakeAttendanceRepo(), zap.NewNop())
	events, err := svc.AuditTrail("ghost")

	assert.NoError(t, err)
	assert.Empty(t, events)
	assert.Zero(t, adminRepo.recentLimit)
}

func TestExportEvents_ReturnsFullHistory(t *testing.T) {
	adminRepo := &fakeAdminRepo{
		events: []domain.AttendanceEvent{
			{ID: 2, WorkerRef: uuid.New(), EventType: domain.CheckOut},
			{ID: 1, WorkerRef: uuid.New(), EventType: domain.CheckIn},
		},
	}

	svc := NewAdminService(nil, adminRepo, newFakeWorkerRepo(), newFakeAttendanceRepo(), zap.NewNop())
	events, err := svc.ExportEvents()

	assert.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestDashboard_ProjectsAttendanceState(t *testing.T) {
	profileID := uuid.New()
	lastSeen := time.Now().UTC().Add(-time.Hour)

	attendance := newFakeAttendanceRepo()
	attendance.profile = &domain.WorkerProfile{ID: profileID, WorkerID: "W1"}
	attendance.lastEvent = &domain.AttendanceEvent{
		WorkerRef:  profileID,
		EventType:  domain.CheckIn,
		OccurredAt: lastSeen,
	}

	workerRepo := newFakeWorkerRepo()
	worker := workerRepo.addWorker("W1", []byte("handle-1"), makeAuthenticator("W1", []byte{0x01}))

	adminRepo := &fakeAdminRepo{
		workers: []domain.Worker{*worker},
		counts:  map[string]int64{profileID.String(): 7},
	}

	svc := NewAdminService(nil, adminRepo, workerRepo, attendance, zap.NewNop())
	overviews, err := svc.Dashboard()

	assert.NoError(t, err)
	assert.Len(t, overviews, 1)
	assert.Equal(t, "W1", overviews[0].WorkerID)
	assert.Equal(t, "in", overviews[0].Status)
	assert.Equal(t, int64(7), overviews[0].TotalLogins)
	assert.Equal(t, 1, overviews[0].DeviceCount)
	assert.NotNil(t, overviews[0].LastSeen)
	assert.True(t, lastSeen.Equal(*overviews[0].LastSeen))
}

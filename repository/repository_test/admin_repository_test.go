package repository_test_test

import (
	"testing"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/repository"
	"github.com/ghareeshmiti/workerconnection-backend/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRecentEvents_AppliesLimitAndOrder(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	profileID := uuid.New()
	later := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "worker_id", "event_type", "occurred_at"}).
		AddRow(8, profileID, "CHECK_OUT", later).
		AddRow(7, profileID, "CHECK_IN", earlier)

	mock.ExpectQuery(`SELECT \* FROM "attendance_events" WHERE worker_id = \$1 ORDER BY occurred_at DESC LIMIT \$2`).
		WithArgs(profileID, 50).
		WillReturnRows(rows)

	repo := repository.NewAdminRepository()
	events, err := repo.RecentEvents(conn, profileID, 50)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, domain.CheckOut, events[0].EventType)
	assert.Equal(t, domain.CheckIn, events[1].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllEvents_ReturnsFullHistory(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)

	workerA := uuid.New()
	workerB := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "worker_id", "event_type", "occurred_at"}).
		AddRow(2, workerB, "CHECK_IN", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)).
		AddRow(1, workerA, "CHECK_IN", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	mock.ExpectQuery(`SELECT \* FROM "attendance_events" ORDER BY occurred_at DESC`).
		WillReturnRows(rows)

	repo := repository.NewAdminRepository()
	events, err := repo.AllEvents(conn)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, workerB, events[0].WorkerRef)
	assert.Equal(t, workerA, events[1].WorkerRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

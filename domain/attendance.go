package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	CheckIn  EventType = "CHECK_IN"
	CheckOut EventType = "CHECK_OUT"
)

// Status is the worker-facing projection of the most recent event.
func (e EventType) Status() string {
	if e == CheckIn {
		return "in"
	}
	return "out"
}

type Establishment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Description string     `gorm:"size:255" json:"description"`
	CreatedAt   *time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Establishment) TableName() string {
	return "establishments"
}

// WorkerMapping links a worker profile to its active establishment. At most
// one active mapping is consulted when resolving an event location.
type WorkerMapping struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	WorkerRef       uuid.UUID  `gorm:"type:uuid;column:worker_id;not null;index" json:"worker_id"`
	EstablishmentID uuid.UUID  `gorm:"type:uuid;not null" json:"establishment_id"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       *time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (WorkerMapping) TableName() string {
	return "worker_mappings"
}

// AttendanceEvent is append-only. Rows are never updated or deleted in
// normal operation; ordering is total by OccurredAt per worker.
type AttendanceEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	WorkerRef       uuid.UUID  `gorm:"type:uuid;column:worker_id;not null;index" json:"worker_id"`
	EventType       EventType  `gorm:"size:20;not null" json:"event_type"`
	EstablishmentID *uuid.UUID `gorm:"type:uuid;default:null" json:"establishment_id"`
	OccurredAt      time.Time  `gorm:"not null;index" json:"occurred_at"`
	Region          string     `gorm:"size:150" json:"region"`
}

func (AttendanceEvent) TableName() string {
	return "attendance_events"
}

const RollupStatusPresent = "PRESENT"

// DailyRollup aggregates one worker's events for one calendar date. It is
// maintained incrementally as events arrive, never recomputed from the full
// event history.
type DailyRollup struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	WorkerRef       uuid.UUID  `gorm:"type:uuid;column:worker_id;not null;uniqueIndex:idx_rollup_worker_date" json:"worker_id"`
	EstablishmentID *uuid.UUID `gorm:"type:uuid;default:null" json:"establishment_id"`
	AttendanceDate  string     `gorm:"size:10;not null;uniqueIndex:idx_rollup_worker_date" json:"attendance_date"`
	FirstCheckinAt  *time.Time `gorm:"default:null" json:"first_checkin_at"`
	LastCheckoutAt  *time.Time `gorm:"default:null" json:"last_checkout_at"`
	TotalHours      float64    `gorm:"not null;default:0" json:"total_hours"`
	Status          string     `gorm:"size:20;not null;default:'PRESENT'" json:"status"`
	UpdatedAt       *time.Time `gorm:"default:null" json:"updated_at"`
}

func (DailyRollup) TableName() string {
	return "attendance_daily_rollups"
}

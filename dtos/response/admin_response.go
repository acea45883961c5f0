package response

import "time"

type WorkerOverview struct {
	WorkerID    string     `json:"worker_id"`
	Status      string     `json:"status"`
	LastSeen    *time.Time `json:"last_seen"`
	DeviceCount int        `json:"device_count"`
	TotalLogins int64      `json:"total_logins"`
}

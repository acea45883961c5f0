package response

import "time"

type FinishRegistrationResponse struct {
	Verified bool `json:"verified"`
}

// FinishAuthenticationResponse keeps authentication and its side effects
// separately observable: a session-issuance failure or a suppressed
// attendance record never masks Verified.
type FinishAuthenticationResponse struct {
	Verified           bool    `json:"verified"`
	Status             string  `json:"status,omitempty"`
	Message            string  `json:"message,omitempty"`
	WorkerID           string  `json:"worker_id,omitempty"`
	AttendanceRecorded bool    `json:"attendance_recorded"`
	Session            *Tokens `json:"session,omitempty"`
	SessionError       string  `json:"session_error,omitempty"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type StatusResponse struct {
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp"`
}

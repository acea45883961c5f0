package request

import "encoding/json"

type BeginRegistrationRequest struct {
	WorkerID string `json:"worker_id" validate:"required,workerid"`
}

type FinishRegistrationRequest struct {
	WorkerID string          `json:"worker_id" validate:"required,workerid"`
	Response json.RawMessage `json:"response" validate:"required"`
}

// BeginAuthenticationRequest with an empty WorkerID starts the anonymous
// (discoverable credential) flow.
type BeginAuthenticationRequest struct {
	WorkerID string `json:"worker_id" validate:"omitempty,workerid"`
}

type FinishAuthenticationRequest struct {
	WorkerID string          `json:"worker_id" validate:"omitempty,workerid"`
	Response json.RawMessage `json:"response" validate:"required"`
	Action   string          `json:"action" validate:"omitempty,oneof=toggle login"`
	Location string          `json:"location"`
}

const (
	ActionToggle = "toggle"
	ActionLogin  = "login"
)

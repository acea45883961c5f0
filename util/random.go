package util

import "crypto/rand"

const userHandleLength = 16

// NewUserHandle generates the opaque WebAuthn user handle for a worker.
// It is generated once per identity and never rotated.
func NewUserHandle() ([]byte, error) {
	handle := make([]byte, userHandleLength)
	if _, err := rand.Read(handle); err != nil {
		return nil, err
	}
	return handle, nil
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

// Worker is the checkpoint identity a passkey is bound to. UserHandle is the
// opaque WebAuthn user handle; it is generated once and never rotated because
// discoverable credentials embed it on the authenticator itself.
type Worker struct {
	Id               uint            `gorm:"primaryKey" json:"id"`
	CreatedAt        *time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        *time.Time      `gorm:"default:null" json:"updated_at"`
	WorkerID         string          `gorm:"size:100;not null;uniqueIndex" json:"worker_id"`
	UserHandle       []byte          `gorm:"not null;uniqueIndex" json:"user_handle"`
	CurrentChallenge string          `gorm:"size:255;default:null" json:"-"`
	Authenticators   []Authenticator `gorm:"foreignKey:WorkerRef;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"authenticators"`
}

func (Worker) TableName() string {
	return "worker_identities"
}

func (w Worker) WebAuthnID() []byte {
	return w.UserHandle
}

func (w Worker) WebAuthnName() string {
	return w.WorkerID
}

func (w Worker) WebAuthnDisplayName() string {
	return w.WorkerID
}

func (w Worker) WebAuthnCredentials() []webauthn.Credential {
	var creds []webauthn.Credential
	for _, a := range w.Authenticators {
		creds = append(creds, webauthn.Credential{
			ID:        a.CredentialID,
			PublicKey: a.PublicKey,
			Transport: a.TransportHints(),
			Authenticator: webauthn.Authenticator{
				SignCount: a.SignCount,
			},
		})
	}
	return creds
}

// WorkerProfile is the business-side worker record (the surrounding system's
// "workers" table). Attendance events reference it; its absence suppresses
// attendance recording but never authentication.
type WorkerProfile struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkerID  string     `gorm:"size:100;not null;uniqueIndex" json:"worker_id"`
	FirstName string     `gorm:"size:100;not null" json:"first_name"`
	LastName  string     `gorm:"size:100;not null" json:"last_name"`
	State     string     `gorm:"size:100" json:"state"`
	District  string     `gorm:"size:100" json:"district"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt *time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (WorkerProfile) TableName() string {
	return "workers"
}

// Authenticator is one registered physical or platform credential. The
// credential id is globally unique: one key, one identity, for its lifetime.
type Authenticator struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	WorkerRef       uint       `gorm:"not null;index" json:"worker_ref"`
	WorkerID        string     `gorm:"size:100;not null;index" json:"worker_id"`
	CredentialID    []byte     `gorm:"not null;unique" json:"credential_id"`
	PublicKey       []byte     `gorm:"not null" json:"public_key"`
	SignCount       uint32     `gorm:"not null" json:"sign_count"`
	Transports      string     `gorm:"size:255;not null;default:'[]'" json:"transports"`
	AAGUID          []byte     `json:"aa_guid"`
	AttestationType string     `json:"attestation_type"`
	BackupEligible  bool       `gorm:"not null;default:false" json:"backup_eligible"`
	BackupState     bool       `gorm:"not null;default:false" json:"backup_state"`
	CreatedAt       *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       *time.Time `gorm:"default:null" json:"updated_at"`
}

func (Authenticator) TableName() string {
	return "authenticators"
}

// TransportHints decodes the stored JSON transport list (nfc, usb, ble, ...).
func (a Authenticator) TransportHints() []protocol.AuthenticatorTransport {
	if a.Transports == "" {
		return nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(a.Transports), &raw); err != nil {
		return nil
	}
	hints := make([]protocol.AuthenticatorTransport, 0, len(raw))
	for _, t := range raw {
		hints = append(hints, protocol.AuthenticatorTransport(t))
	}
	return hints
}

// EncodeTransports stores transport hints the way the wire carries them.
func EncodeTransports(transports []protocol.AuthenticatorTransport) string {
	if len(transports) == 0 {
		return "[]"
	}
	raw := make([]string, 0, len(transports))
	for _, t := range transports {
		raw = append(raw, string(t))
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Descriptor renders the authenticator as a WebAuthn credential descriptor
// for allow and exclusion lists.
func (a Authenticator) Descriptor() protocol.CredentialDescriptor {
	return protocol.CredentialDescriptor{
		Type:         protocol.PublicKeyCredentialType,
		CredentialID: protocol.URLEncodedBase64(a.CredentialID),
		Transport:    a.TransportHints(),
	}
}

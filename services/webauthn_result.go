package services

import (
	"strings"

	"github.com/ghareeshmiti/workerconnection-backend/domain"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// VerifiedCredential is the single, validated shape ceremony results take
// once the library returns. Required fields are checked here, at the
// boundary, and nowhere else.
type VerifiedCredential struct {
	CredentialID    []byte
	PublicKey       []byte
	SignCount       uint32
	Transports      []protocol.AuthenticatorTransport
	AAGUID          []byte
	AttestationType string
	BackupEligible  bool
	BackupState     bool
	CloneWarning    bool
}

func NewVerifiedCredential(cred *webauthn.Credential) (*VerifiedCredential, error) {
	if cred == nil || len(cred.ID) == 0 {
		return nil, domain.ErrInvalidCeremonyResult
	}
	if len(cred.PublicKey) == 0 {
		return nil, domain.ErrInvalidCeremonyResult
	}
	return &VerifiedCredential{
		CredentialID:    cred.ID,
		PublicKey:       cred.PublicKey,
		SignCount:       cred.Authenticator.SignCount,
		Transports:      cred.Transport,
		AAGUID:          cred.Authenticator.AAGUID,
		AttestationType: cred.AttestationType,
		BackupEligible:  cred.Flags.BackupEligible,
		BackupState:     cred.Flags.BackupState,
		CloneWarning:    cred.Authenticator.CloneWarning,
	}, nil
}

const androidOriginPrefix = "android:apk-key-hash:"

// nativeAppOrigin extracts the application-specific origin scheme mobile
// native callers embed in clientData, for inclusion in the accepted-origin
// set. Browsers return ordinary https origins, which need no extension.
func nativeAppOrigin(clientDataOrigin string) []string {
	if strings.HasPrefix(clientDataOrigin, androidOriginPrefix) {
		return []string{clientDataOrigin}
	}
	return nil
}

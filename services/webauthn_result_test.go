package services

import (
	"testing"

	"github.com/ghareeshmiti/workerconnection-backend/domain"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
)

func TestNewVerifiedCredential(t *testing.T) {
	tests := []struct {
		name    string
		cred    *webauthn.Credential
		wantErr error
	}{
		{"nil credential", nil, domain.ErrInvalidCeremonyResult},
		{"missing credential id", &webauthn.Credential{PublicKey: []byte{0x01}}, domain.ErrInvalidCeremonyResult},
		{"missing public key", &webauthn.Credential{ID: []byte{0x01}}, domain.ErrInvalidCeremonyResult},
		{"complete", &webauthn.Credential{ID: []byte{0x01}, PublicKey: []byte{0x02}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verified, err := NewVerifiedCredential(tt.cred)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, verified)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.cred.ID, verified.CredentialID)
			assert.Equal(t, tt.cred.PublicKey, verified.PublicKey)
		})
	}
}

func TestNewVerifiedCredential_CopiesAuthenticatorState(t *testing.T) {
	cred := &webauthn.Credential{
		ID:        []byte{0x01},
		PublicKey: []byte{0x02},
		Transport: []protocol.AuthenticatorTransport{protocol.NFC, protocol.USB},
		Authenticator: webauthn.Authenticator{
			SignCount:    12,
			AAGUID:       []byte{0xAA},
			CloneWarning: true,
		},
	}
	verified, err := NewVerifiedCredential(cred)

	assert.NoError(t, err)
	assert.Equal(t, uint32(12), verified.SignCount)
	assert.Equal(t, []byte{0xAA}, verified.AAGUID)
	assert.True(t, verified.CloneWarning)
	assert.Len(t, verified.Transports, 2)
}

func TestNativeAppOrigin(t *testing.T) {
	assert.Nil(t, nativeAppOrigin("https://checkpoint.example.com"))
	assert.Nil(t, nativeAppOrigin(""))

	androidOrigin := "android:apk-key-hash:aGVsbG8"
	assert.Equal(t, []string{androidOrigin}, nativeAppOrigin(androidOrigin))
}

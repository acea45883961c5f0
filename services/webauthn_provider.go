package services

import (
	"github.com/ghareeshmiti/workerconnection-backend/config"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// IWebAuthnProvider is the slice of the ceremony library the services call.
// The indirection exists so ceremony orchestration is testable without real
// authenticator signatures.
type IWebAuthnProvider interface {
	BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error)
	CreateCredential(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)
	BeginLogin(user webauthn.User, opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	ValidateLogin(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error)
}

// ProviderFactory builds a provider scoped to a request's declared origin.
type ProviderFactory func(origin string, extraOrigins ...string) (IWebAuthnProvider, error)

// NewProviderFactory adapts the relying-party config into the factory the
// ceremony services consume.
func NewProviderFactory(rp *config.RelyingParty) ProviderFactory {
	return func(origin string, extraOrigins ...string) (IWebAuthnProvider, error) {
		return rp.ForOrigin(origin, extraOrigins...)
	}
}

package config

import (
	"net/url"

	"github.com/go-webauthn/webauthn/webauthn"
)

// RelyingParty builds WebAuthn handles scoped to the origin a request
// declared. Kiosks reach the server under several hostnames, so the rpID is
// derived per request and the configured values act as the fallback.
type RelyingParty struct {
	DisplayName   string
	DefaultRpID   string
	DefaultOrigin string
}

func NewRelyingParty() *RelyingParty {
	return &RelyingParty{
		DisplayName:   Conf.Application.WebAuthn.RpDisplayName,
		DefaultRpID:   Conf.Application.WebAuthn.RpID,
		DefaultOrigin: Conf.Application.WebAuthn.RpOrigin,
	}
}

// ForOrigin returns a WebAuthn handle whose rpID is the origin's hostname,
// falling back to the configured default when the origin is absent or
// unparseable. Extra origins (native-app schemes) extend the accepted set.
func (rp *RelyingParty) ForOrigin(origin string, extraOrigins ...string) (*webauthn.WebAuthn, error) {
	rpID := rp.DefaultRpID
	acceptedOrigin := rp.DefaultOrigin

	if origin != "" {
		if u, err := url.Parse(origin); err == nil && u.Hostname() != "" {
			rpID = u.Hostname()
			acceptedOrigin = origin
		}
	}

	origins := append([]string{acceptedOrigin}, extraOrigins...)
	return webauthn.New(&webauthn.Config{
		RPDisplayName: rp.DisplayName,
		RPID:          rpID,
		RPOrigins:     origins,
	})
}

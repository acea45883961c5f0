package domain

import "errors"

var (
	// ErrCredentialAlreadyRegistered rejects binding a credential id that
	// exists anywhere in the store, regardless of owning worker.
	ErrCredentialAlreadyRegistered = errors.New("this card is already registered to a worker")

	// ErrAuthenticatorNotFound means the asserted credential id is not among
	// the resolved worker's authenticators.
	ErrAuthenticatorNotFound = errors.New("authenticator not found")

	// ErrChallengeNotFound covers missing, mismatched, and already-consumed
	// challenges alike so responses leak nothing about stored state.
	ErrChallengeNotFound = errors.New("challenge not found or expired")

	// ErrCeremonyNotVerified is the ceremony library's rejection surfaced as
	// a client failure.
	ErrCeremonyNotVerified = errors.New("verification returned false")

	// ErrInvalidCeremonyResult means the verification result was missing a
	// required field (credential id or public key).
	ErrInvalidCeremonyResult = errors.New("invalid ceremony result")

	// ErrPossibleCloneDetected fires when an assertion reports a signature
	// counter that did not advance past the stored one.
	ErrPossibleCloneDetected = errors.New("signature counter did not advance, possible cloned authenticator")

	// ErrWorkerProfileMissing suppresses attendance recording only; it never
	// fails the authentication that triggered it.
	ErrWorkerProfileMissing = errors.New("no worker profile linked to identity")

	ErrWorkerNotFound        = errors.New("worker not found")
	ErrEstablishmentNotFound = errors.New("establishment not found")
	ErrEstablishmentExists   = errors.New("establishment already exists")
)

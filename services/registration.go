package services

import (
	"bytes"
	"fmt"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/request"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/response"
	"github.com/ghareeshmiti/workerconnection-backend/metrics"
	"github.com/ghareeshmiti/workerconnection-backend/repository"
	"github.com/ghareeshmiti/workerconnection-backend/util"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IRegistrationService interface {
	Begin(origin string, req *request.BeginRegistrationRequest) (*protocol.CredentialCreation, error)
	Finish(origin string, req *request.FinishRegistrationRequest) (*response.FinishRegistrationResponse, error)
}

type RegistrationService struct {
	db         *gorm.DB
	workerRepo repository.IWorkerRepository
	challenges IChallengeService
	provider   ProviderFactory
	logger     *zap.Logger
}

func NewRegistrationService(db *gorm.DB, workerRepo repository.IWorkerRepository, challenges IChallengeService, provider ProviderFactory, logger *zap.Logger) IRegistrationService {
	return &RegistrationService{db: db, workerRepo: workerRepo, challenges: challenges, provider: provider, logger: logger}
}

// Begin resolves (or provisions) the identity and issues creation options.
// The exclusion list covers every authenticator in the store, not just this
// worker's: a physical key bound elsewhere must not be re-registerable under
// a new handle.
func (s *RegistrationService) Begin(origin string, req *request.BeginRegistrationRequest) (*protocol.CredentialCreation, error) {
	worker, err := s.workerRepo.ResolveOrProvisionWorker(s.db, req.WorkerID)
	if err != nil {
		return nil, err
	}
	s.ensureProfile(req.WorkerID)

	all, err := s.workerRepo.ListAllAuthenticators(s.db)
	if err != nil {
		return nil, err
	}
	exclusions := make([]protocol.CredentialDescriptor, 0, len(all))
	for _, a := range all {
		exclusions = append(exclusions, a.Descriptor())
	}

	wa, err := s.provider(origin)
	if err != nil {
		return nil, err
	}

	opts := []webauthn.RegistrationOption{
		webauthn.WithExclusions(exclusions),
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			ResidentKey:             protocol.ResidentKeyRequirementRequired,
			UserVerification:        protocol.VerificationPreferred,
			AuthenticatorAttachment: protocol.CrossPlatform,
		}),
		webauthn.WithConveyancePreference(protocol.PreferDirectAttestation),
	}
	creation, session, err := wa.BeginRegistration(*worker, opts...)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}

	if err := s.challenges.IssueForWorker(s.db, worker.WorkerID, session.Challenge); err != nil {
		return nil, err
	}
	return creation, nil
}

// Finish verifies the attestation response against the stored challenge and
// persists the new authenticator binding.
func (s *RegistrationService) Finish(origin string, req *request.FinishRegistrationRequest) (*response.FinishRegistrationResponse, error) {
	worker, err := s.workerRepo.GetWorkerWithAuthenticators(s.db, req.WorkerID)
	if err != nil {
		return nil, err
	}

	parsed, err := protocol.ParseCredentialCreationResponseBody(bytes.NewReader(req.Response))
	if err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindRegistration, metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCeremonyResult, err)
	}

	presented := parsed.Response.CollectedClientData.Challenge
	if err := s.challenges.ConsumeForWorker(s.db, worker, presented); err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindRegistration, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	extras := nativeAppOrigin(parsed.Response.CollectedClientData.Origin)
	wa, err := s.provider(origin, extras...)
	if err != nil {
		return nil, err
	}

	session := webauthn.SessionData{
		Challenge:        presented,
		UserID:           worker.UserHandle,
		UserVerification: protocol.VerificationPreferred,
	}
	cred, err := wa.CreateCredential(*worker, session, parsed)
	if err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindRegistration, metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrCeremonyNotVerified, err)
	}

	verified, err := NewVerifiedCredential(cred)
	if err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindRegistration, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	authenticator := &domain.Authenticator{
		WorkerRef:       worker.Id,
		WorkerID:        worker.WorkerID,
		CredentialID:    verified.CredentialID,
		PublicKey:       verified.PublicKey,
		SignCount:       verified.SignCount,
		Transports:      domain.EncodeTransports(verified.Transports),
		AAGUID:          verified.AAGUID,
		AttestationType: verified.AttestationType,
		BackupEligible:  verified.BackupEligible,
		BackupState:     verified.BackupState,
	}
	if err := s.workerRepo.RegisterAuthenticator(s.db, authenticator); err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindRegistration, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	metrics.CeremoniesTotal.WithLabelValues(metrics.KindRegistration, metrics.OutcomeVerified).Inc()
	s.logger.Info("registered new authenticator",
		zap.String("worker_id", worker.WorkerID),
		zap.String("credential_id", util.Base64URLEncode(verified.CredentialID)))
	return &response.FinishRegistrationResponse{Verified: true}, nil
}

// ensureProfile lazily provisions the business-side worker record. Failure
// suppresses attendance later but never fails a ceremony.
func (s *RegistrationService) ensureProfile(workerID string) {
	if err := s.workerRepo.EnsureWorkerProfile(s.db, workerID); err != nil {
		s.logger.Warn("failed to provision worker profile",
			zap.String("worker_id", workerID),
			zap.Error(err))
	}
}

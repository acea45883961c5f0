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

type IAuthenticationService interface {
	Begin(origin string, req *request.BeginAuthenticationRequest) (*protocol.CredentialAssertion, error)
	Finish(origin string, req *request.FinishAuthenticationRequest) (*response.FinishAuthenticationResponse, error)
}

type AuthenticationService struct {
	db                  *gorm.DB
	workerRepo          repository.IWorkerRepository
	challenges          IChallengeService
	provider            ProviderFactory
	attendance          IAttendanceService
	sessions            ISessionService
	allowAllCredentials bool
	logger              *zap.Logger
}

func NewAuthenticationService(
	db *gorm.DB,
	workerRepo repository.IWorkerRepository,
	challenges IChallengeService,
	provider ProviderFactory,
	attendance IAttendanceService,
	sessions ISessionService,
	allowAllCredentials bool,
	logger *zap.Logger,
) IAuthenticationService {
	return &AuthenticationService{
		db:                  db,
		workerRepo:          workerRepo,
		challenges:          challenges,
		provider:            provider,
		attendance:          attendance,
		sessions:            sessions,
		allowAllCredentials: allowAllCredentials,
		logger:              logger,
	}
}

// Begin issues assertion options. With a handle, the challenge binds to the
// worker row and the allow-list carries that worker's credentials. Without
// one, the ceremony is anonymous: the challenge goes to the shared store and
// the allow-list is either empty (platform discoverable-credential UI) or
// every registered credential (hardware tokens over NFC need the explicit
// list to prompt).
func (s *AuthenticationService) Begin(origin string, req *request.BeginAuthenticationRequest) (*protocol.CredentialAssertion, error) {
	wa, err := s.provider(origin)
	if err != nil {
		return nil, err
	}

	if req.WorkerID != "" {
		return s.beginIdentified(wa, req.WorkerID)
	}
	return s.beginAnonymous(wa)
}

func (s *AuthenticationService) beginIdentified(wa IWebAuthnProvider, workerID string) (*protocol.CredentialAssertion, error) {
	worker, err := s.workerRepo.ResolveOrProvisionWorker(s.db, workerID)
	if err != nil {
		return nil, err
	}

	var (
		assertion *protocol.CredentialAssertion
		session   *webauthn.SessionData
	)
	if len(worker.Authenticators) > 0 {
		assertion, session, err = wa.BeginLogin(*worker)
	} else {
		// A freshly provisioned worker has nothing to allow-list yet; the
		// ceremony still gets a bound challenge and fails at finish.
		assertion, session, err = wa.BeginDiscoverableLogin()
	}
	if err != nil {
		return nil, fmt.Errorf("begin authentication: %w", err)
	}

	if err := s.challenges.IssueForWorker(s.db, worker.WorkerID, session.Challenge); err != nil {
		return nil, err
	}
	return assertion, nil
}

func (s *AuthenticationService) beginAnonymous(wa IWebAuthnProvider) (*protocol.CredentialAssertion, error) {
	assertion, session, err := wa.BeginDiscoverableLogin()
	if err != nil {
		return nil, fmt.Errorf("begin authentication: %w", err)
	}

	if s.allowAllCredentials {
		all, err := s.workerRepo.ListAllAuthenticators(s.db)
		if err != nil {
			return nil, err
		}
		allowed := make([]protocol.CredentialDescriptor, 0, len(all))
		for _, a := range all {
			allowed = append(allowed, a.Descriptor())
		}
		assertion.Response.AllowedCredentials = allowed
	}

	if err := s.challenges.IssueAnonymous(session.Challenge); err != nil {
		return nil, err
	}
	return assertion, nil
}

// Finish verifies the assertion, advances the signature counter, and runs
// the requested follow-up action. Attendance and session side effects are
// reported next to Verified, never in place of it.
func (s *AuthenticationService) Finish(origin string, req *request.FinishAuthenticationRequest) (*response.FinishAuthenticationResponse, error) {
	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(req.Response))
	if err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindAuthentication, metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCeremonyResult, err)
	}
	presented := parsed.Response.CollectedClientData.Challenge

	worker, err := s.resolveAndConsume(req.WorkerID, parsed, presented)
	if err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindAuthentication, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	authenticator := locateAuthenticator(worker, parsed.RawID)
	if authenticator == nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindAuthentication, metrics.OutcomeRejected).Inc()
		return nil, domain.ErrAuthenticatorNotFound
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
	cred, err := wa.ValidateLogin(*worker, session, parsed)
	if err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindAuthentication, metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrCeremonyNotVerified, err)
	}

	verified, err := NewVerifiedCredential(cred)
	if err != nil {
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindAuthentication, metrics.OutcomeRejected).Inc()
		return nil, err
	}
	if verified.CloneWarning {
		// Counter did not advance past the stored value; leave the stored
		// counter untouched and fail the attempt.
		metrics.CeremoniesTotal.WithLabelValues(metrics.KindAuthentication, metrics.OutcomeRejected).Inc()
		s.logger.Warn("rejected assertion with non-advancing signature counter",
			zap.String("worker_id", worker.WorkerID),
			zap.String("credential_id", util.Base64URLEncode(verified.CredentialID)))
		return nil, domain.ErrPossibleCloneDetected
	}

	if err := s.workerRepo.AdvanceCounter(s.db, verified.CredentialID, verified.SignCount); err != nil {
		return nil, err
	}
	metrics.CeremoniesTotal.WithLabelValues(metrics.KindAuthentication, metrics.OutcomeVerified).Inc()

	result := &response.FinishAuthenticationResponse{
		Verified: true,
		Status:   domain.CheckOut.Status(),
		Message:  "Authenticated",
		WorkerID: worker.WorkerID,
	}

	switch req.Action {
	case request.ActionToggle:
		s.applyToggle(worker.WorkerID, req.Location, result)
	case request.ActionLogin:
		s.applyLogin(worker, result)
	}
	return result, nil
}

// resolveAndConsume locates the identity and consumes the matching
// challenge: the worker row's for identified ceremonies, the shared-store
// entry for anonymous ones (where the responder's user handle names the
// identity after the fact).
func (s *AuthenticationService) resolveAndConsume(workerID string, parsed *protocol.ParsedCredentialAssertionData, presented string) (*domain.Worker, error) {
	if workerID != "" {
		worker, err := s.workerRepo.ResolveOrProvisionWorker(s.db, workerID)
		if err != nil {
			return nil, err
		}
		if err := s.challenges.ConsumeForWorker(s.db, worker, presented); err != nil {
			return nil, err
		}
		return worker, nil
	}

	if len(parsed.Response.UserHandle) == 0 {
		return nil, fmt.Errorf("%w: user handle missing in response", domain.ErrInvalidCeremonyResult)
	}
	worker, err := s.workerRepo.FindWorkerByUserHandle(s.db, parsed.Response.UserHandle)
	if err != nil {
		return nil, err
	}
	if err := s.challenges.ConsumeAnonymous(presented); err != nil {
		return nil, err
	}
	return worker, nil
}

func locateAuthenticator(worker *domain.Worker, credentialID []byte) *domain.Authenticator {
	for i := range worker.Authenticators {
		if bytes.Equal(worker.Authenticators[i].CredentialID, credentialID) {
			return &worker.Authenticators[i]
		}
	}
	return nil
}

func (s *AuthenticationService) applyToggle(workerID, location string, result *response.FinishAuthenticationResponse) {
	status, recorded, err := s.attendance.Toggle(workerID, location)
	if err != nil {
		s.logger.Warn("attendance toggle failed",
			zap.String("worker_id", workerID),
			zap.Error(err))
		return
	}
	result.Status = status
	result.AttendanceRecorded = recorded
	if status == domain.CheckIn.Status() {
		result.Message = fmt.Sprintf("Welcome back %s! Checked In.", workerID)
	} else {
		result.Message = fmt.Sprintf("Goodbye %s! Checked Out.", workerID)
	}
}

func (s *AuthenticationService) applyLogin(worker *domain.Worker, result *response.FinishAuthenticationResponse) {
	tokens, err := s.sessions.IssueSession(worker)
	if err != nil {
		// Authenticated, but session issuance failed; report both.
		s.logger.Warn("session issuance failed",
			zap.String("worker_id", worker.WorkerID),
			zap.Error(err))
		result.SessionError = "session issuance failed"
		return
	}
	result.Session = tokens
}

package services

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/request"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/response"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	dialector := postgres.New(postgres.Config{
		Conn:       db,
		DriverName: "postgres",
		DSN:        "sqlmock_db_0",
	})
	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open GORM connection: %v", err)
	}
	return conn, mock
}

type fakeWorkerRepo struct {
	workers     map[string]*domain.Worker
	all         []domain.Authenticator
	registered  []*domain.Authenticator
	registerErr error
	advanced    map[string]uint32
	profiles    map[string]bool
	profileErr  error
	nextId      uint
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{
		workers:  make(map[string]*domain.Worker),
		advanced: make(map[string]uint32),
		profiles: make(map[string]bool),
		nextId:   1,
	}
}

func (r *fakeWorkerRepo) addWorker(workerID string, handle []byte, authenticators ...domain.Authenticator) *domain.Worker {
	worker := &domain.Worker{
		Id:             r.nextId,
		WorkerID:       workerID,
		UserHandle:     handle,
		Authenticators: authenticators,
	}
	r.nextId++
	r.workers[workerID] = worker
	r.all = append(r.all, authenticators...)
	return worker
}

func (r *fakeWorkerRepo) ResolveOrProvisionWorker(db *gorm.DB, workerID string) (*domain.Worker, error) {
	if worker, ok := r.workers[workerID]; ok {
		return worker, nil
	}
	return r.addWorker(workerID, []byte(workerID+"-handle")), nil
}

func (r *fakeWorkerRepo) GetWorkerWithAuthenticators(db *gorm.DB, workerID string) (*domain.Worker, error) {
	if worker, ok := r.workers[workerID]; ok {
		return worker, nil
	}
	return nil, domain.ErrWorkerNotFound
}

func (r *fakeWorkerRepo) FindWorkerByUserHandle(db *gorm.DB, userHandle []byte) (*domain.Worker, error) {
	for _, worker := range r.workers {
		if bytes.Equal(worker.UserHandle, userHandle) {
			return worker, nil
		}
	}
	return nil, domain.ErrWorkerNotFound
}

func (r *fakeWorkerRepo) ListAuthenticators(db *gorm.DB, workerID string) ([]domain.Authenticator, error) {
	var out []domain.Authenticator
	for _, a := range r.all {
		if a.WorkerID == workerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeWorkerRepo) ListAllAuthenticators(db *gorm.DB) ([]domain.Authenticator, error) {
	return r.all, nil
}

func (r *fakeWorkerRepo) FindByCredentialID(db *gorm.DB, credentialID []byte) (*domain.Authenticator, error) {
	for i := range r.all {
		if bytes.Equal(r.all[i].CredentialID, credentialID) {
			return &r.all[i], nil
		}
	}
	return nil, domain.ErrAuthenticatorNotFound
}

func (r *fakeWorkerRepo) RegisterAuthenticator(db *gorm.DB, authenticator *domain.Authenticator) error {
	if r.registerErr != nil {
		return r.registerErr
	}
	for i := range r.all {
		if bytes.Equal(r.all[i].CredentialID, authenticator.CredentialID) {
			return domain.ErrCredentialAlreadyRegistered
		}
	}
	r.all = append(r.all, *authenticator)
	r.registered = append(r.registered, authenticator)
	return nil
}

func (r *fakeWorkerRepo) AdvanceCounter(db *gorm.DB, credentialID []byte, newCounter uint32) error {
	r.advanced[hex.EncodeToString(credentialID)] = newCounter
	return nil
}

func (r *fakeWorkerRepo) SetChallenge(db *gorm.DB, workerID string, challenge string) error {
	if worker, ok := r.workers[workerID]; ok {
		worker.CurrentChallenge = challenge
	}
	return nil
}

func (r *fakeWorkerRepo) ClearChallenge(db *gorm.DB, workerID string) error {
	if worker, ok := r.workers[workerID]; ok {
		worker.CurrentChallenge = ""
	}
	return nil
}

func (r *fakeWorkerRepo) EnsureWorkerProfile(db *gorm.DB, workerID string) error {
	if r.profileErr != nil {
		return r.profileErr
	}
	r.profiles[workerID] = true
	return nil
}

func (r *fakeWorkerRepo) DeleteWorker(db *gorm.DB, workerID string) error {
	if _, ok := r.workers[workerID]; !ok {
		return domain.ErrWorkerNotFound
	}
	delete(r.workers, workerID)
	return nil
}

func makeAuthenticator(workerID string, credentialID []byte) domain.Authenticator {
	return domain.Authenticator{
		WorkerID:     workerID,
		CredentialID: credentialID,
		PublicKey:    []byte{0xBE, 0xEF},
		SignCount:    1,
		Transports:   `["nfc"]`,
	}
}

type fakeRedis struct {
	stored map[string]bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{stored: make(map[string]bool)}
}

func (r *fakeRedis) StoreAnonymousChallenge(challenge string) error {
	r.stored[challenge] = true
	return nil
}

func (r *fakeRedis) TakeAnonymousChallenge(challenge string) (bool, error) {
	if r.stored[challenge] {
		delete(r.stored, challenge)
		return true, nil
	}
	return false, nil
}

type fakeProvider struct {
	creation  *protocol.CredentialCreation
	assertion *protocol.CredentialAssertion
	session   *webauthn.SessionData
	cred      *webauthn.Credential

	beginErr    error
	validateErr error

	regOptCount        int
	beginLoginCalled   bool
	discoverableCalled bool
	validatedSession   webauthn.SessionData
}

func (p *fakeProvider) BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error) {
	if p.beginErr != nil {
		return nil, nil, p.beginErr
	}
	p.regOptCount = len(opts)
	return p.creation, p.session, nil
}

func (p *fakeProvider) CreateCredential(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error) {
	if p.validateErr != nil {
		return nil, p.validateErr
	}
	p.validatedSession = session
	return p.cred, nil
}

func (p *fakeProvider) BeginLogin(user webauthn.User, opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	if p.beginErr != nil {
		return nil, nil, p.beginErr
	}
	p.beginLoginCalled = true
	return p.assertion, p.session, nil
}

func (p *fakeProvider) BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error) {
	if p.beginErr != nil {
		return nil, nil, p.beginErr
	}
	p.discoverableCalled = true
	return p.assertion, p.session, nil
}

func (p *fakeProvider) ValidateLogin(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error) {
	if p.validateErr != nil {
		return nil, p.validateErr
	}
	p.validatedSession = session
	return p.cred, nil
}

func (p *fakeProvider) factory() ProviderFactory {
	return func(origin string, extraOrigins ...string) (IWebAuthnProvider, error) {
		return p, nil
	}
}

type fakeAttendanceSvc struct {
	status    string
	recorded  bool
	err       error
	calls     int
	workerID  string
	location  string
	statusRes *response.StatusResponse
}

func (s *fakeAttendanceSvc) Toggle(workerID string, location string) (string, bool, error) {
	s.calls++
	s.workerID = workerID
	s.location = location
	return s.status, s.recorded, s.err
}

func (s *fakeAttendanceSvc) Status(workerID string) (*response.StatusResponse, error) {
	return s.statusRes, nil
}

type fakeSessionSvc struct {
	tokens *response.Tokens
	err    error
	calls  int
}

func (s *fakeSessionSvc) IssueSession(worker *domain.Worker) (*response.Tokens, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tokens, nil
}

func (s *fakeSessionSvc) ParseToken(tokenStr string) (*jwt.Token, error) {
	return nil, nil
}

func (s *fakeSessionSvc) GetClaims(token *jwt.Token) (jwt.MapClaims, error) {
	return nil, nil
}

type fakeAttendanceRepo struct {
	profile        *domain.WorkerProfile
	lastEvent      *domain.AttendanceEvent
	inserted       []*domain.AttendanceEvent
	establishments map[string]*domain.Establishment
	activeEst      *uuid.UUID
	rollup         *domain.DailyRollup
	savedRollups   []*domain.DailyRollup
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{establishments: make(map[string]*domain.Establishment)}
}

func (r *fakeAttendanceRepo) GetProfile(db *gorm.DB, workerID string) (*domain.WorkerProfile, error) {
	if r.profile == nil {
		return nil, domain.ErrWorkerProfileMissing
	}
	return r.profile, nil
}

func (r *fakeAttendanceRepo) LockProfile(db *gorm.DB, workerID string) (*domain.WorkerProfile, error) {
	return r.GetProfile(db, workerID)
}

func (r *fakeAttendanceRepo) LastEvent(db *gorm.DB, profileID uuid.UUID) (*domain.AttendanceEvent, error) {
	return r.lastEvent, nil
}

func (r *fakeAttendanceRepo) InsertEvent(db *gorm.DB, event *domain.AttendanceEvent) error {
	r.inserted = append(r.inserted, event)
	r.lastEvent = event
	return nil
}

func (r *fakeAttendanceRepo) ActiveEstablishment(db *gorm.DB, profileID uuid.UUID) (*uuid.UUID, error) {
	return r.activeEst, nil
}

func (r *fakeAttendanceRepo) EstablishmentByName(db *gorm.DB, name string) (*domain.Establishment, error) {
	if establishment, ok := r.establishments[name]; ok {
		return establishment, nil
	}
	return nil, domain.ErrEstablishmentNotFound
}

func (r *fakeAttendanceRepo) GetRollupForDate(db *gorm.DB, profileID uuid.UUID, date string) (*domain.DailyRollup, error) {
	return r.rollup, nil
}

func (r *fakeAttendanceRepo) SaveRollup(db *gorm.DB, rollup *domain.DailyRollup) error {
	r.savedRollups = append(r.savedRollups, rollup)
	r.rollup = rollup
	return nil
}

type fakeAdminRepo struct {
	workers        []domain.Worker
	counts         map[string]int64
	events         []domain.AttendanceEvent
	recentLimit    int
	establishments []domain.Establishment
}

func (r *fakeAdminRepo) ListWorkers(db *gorm.DB) ([]domain.Worker, error) {
	return r.workers, nil
}

func (r *fakeAdminRepo) CountEvents(db *gorm.DB, profileID uuid.UUID) (int64, error) {
	return r.counts[profileID.String()], nil
}

func (r *fakeAdminRepo) RecentEvents(db *gorm.DB, profileID uuid.UUID, limit int) ([]domain.AttendanceEvent, error) {
	r.recentLimit = limit
	var out []domain.AttendanceEvent
	for _, event := range r.events {
		if event.WorkerRef == profileID {
			out = append(out, event)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) AllEvents(db *gorm.DB) ([]domain.AttendanceEvent, error) {
	return r.events, nil
}

func (r *fakeAdminRepo) ListEstablishments(db *gorm.DB) ([]domain.Establishment, error) {
	return r.establishments, nil
}

func (r *fakeAdminRepo) CreateEstablishment(db *gorm.DB, name string) (*domain.Establishment, error) {
	for i := range r.establishments {
		if r.establishments[i].Name == name {
			return nil, domain.ErrEstablishmentExists
		}
	}
	establishment := domain.Establishment{ID: uuid.New(), Name: name}
	r.establishments = append(r.establishments, establishment)
	return &establishment, nil
}

func (r *fakeAdminRepo) DeleteEstablishment(db *gorm.DB, name string) error {
	for i := range r.establishments {
		if r.establishments[i].Name == name {
			r.establishments = append(r.establishments[:i], r.establishments[i+1:]...)
			return nil
		}
	}
	return domain.ErrEstablishmentNotFound
}

type fakePublisher struct {
	published []*request.AttendanceRecordedEvent
	err       error
}

func (p *fakePublisher) PublishAttendanceEvent(event *request.AttendanceRecordedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

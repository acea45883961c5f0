package repository

import (
	"errors"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IWorkerRepository is the credential store: identities, their registered
// authenticators, and the identity-bound challenge column.
type IWorkerRepository interface {
	ResolveOrProvisionWorker(db *gorm.DB, workerID string) (*domain.Worker, error)
	GetWorkerWithAuthenticators(db *gorm.DB, workerID string) (*domain.Worker, error)
	FindWorkerByUserHandle(db *gorm.DB, userHandle []byte) (*domain.Worker, error)
	ListAuthenticators(db *gorm.DB, workerID string) ([]domain.Authenticator, error)
	ListAllAuthenticators(db *gorm.DB) ([]domain.Authenticator, error)
	FindByCredentialID(db *gorm.DB, credentialID []byte) (*domain.Authenticator, error)
	RegisterAuthenticator(db *gorm.DB, authenticator *domain.Authenticator) error
	AdvanceCounter(db *gorm.DB, credentialID []byte, newCounter uint32) error
	SetChallenge(db *gorm.DB, workerID string, challenge string) error
	ClearChallenge(db *gorm.DB, workerID string) error
	EnsureWorkerProfile(db *gorm.DB, workerID string) error
	DeleteWorker(db *gorm.DB, workerID string) error
}

type WorkerRepository struct {
}

func NewWorkerRepository() IWorkerRepository {
	return &WorkerRepository{}
}

// ResolveOrProvisionWorker fetches the identity for a handle, creating it
// with a fresh random user handle on first contact.
func (r *WorkerRepository) ResolveOrProvisionWorker(db *gorm.DB, workerID string) (*domain.Worker, error) {
	var worker domain.Worker
	err := db.Preload("Authenticators").Where("worker_id = ?", workerID).First(&worker).Error
	if err == nil {
		return &worker, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	handle, err := util.NewUserHandle()
	if err != nil {
		return nil, err
	}
	worker = domain.Worker{WorkerID: workerID, UserHandle: handle}
	if err := db.Create(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) GetWorkerWithAuthenticators(db *gorm.DB, workerID string) (*domain.Worker, error) {
	var worker domain.Worker
	err := db.Preload("Authenticators").Where("worker_id = ?", workerID).First(&worker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) FindWorkerByUserHandle(db *gorm.DB, userHandle []byte) (*domain.Worker, error) {
	var worker domain.Worker
	err := db.Preload("Authenticators").Where("user_handle = ?", userHandle).First(&worker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) ListAuthenticators(db *gorm.DB, workerID string) ([]domain.Authenticator, error) {
	var authenticators []domain.Authenticator
	err := db.Where("worker_id = ?", workerID).Find(&authenticators).Error
	return authenticators, err
}

func (r *WorkerRepository) ListAllAuthenticators(db *gorm.DB) ([]domain.Authenticator, error) {
	var authenticators []domain.Authenticator
	err := db.Find(&authenticators).Error
	return authenticators, err
}

func (r *WorkerRepository) FindByCredentialID(db *gorm.DB, credentialID []byte) (*domain.Authenticator, error) {
	var authenticator domain.Authenticator
	err := db.Where("credential_id = ?", credentialID).First(&authenticator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAuthenticatorNotFound
		}
		return nil, err
	}
	return &authenticator, nil
}

// RegisterAuthenticator persists a new credential binding. A credential id
// already present anywhere in the store is a conflict regardless of which
// worker owns it: one physical key, one identity.
func (r *WorkerRepository) RegisterAuthenticator(db *gorm.DB, authenticator *domain.Authenticator) error {
	var count int64
	if err := db.Model(&domain.Authenticator{}).
		Where("credential_id = ?", authenticator.CredentialID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCredentialAlreadyRegistered
	}
	return db.Create(authenticator).Error
}

func (r *WorkerRepository) AdvanceCounter(db *gorm.DB, credentialID []byte, newCounter uint32) error {
	return db.Model(&domain.Authenticator{}).
		Where("credential_id = ?", credentialID).
		Update("sign_count", newCounter).Error
}

func (r *WorkerRepository) SetChallenge(db *gorm.DB, workerID string, challenge string) error {
	return db.Model(&domain.Worker{}).
		Where("worker_id = ?", workerID).
		Update("current_challenge", challenge).Error
}

func (r *WorkerRepository) ClearChallenge(db *gorm.DB, workerID string) error {
	return db.Model(&domain.Worker{}).
		Where("worker_id = ?", workerID).
		Update("current_challenge", "").Error
}

// EnsureWorkerProfile lazily provisions the business-side worker record the
// attendance layer needs. Callers treat a failure here as non-fatal.
func (r *WorkerRepository) EnsureWorkerProfile(db *gorm.DB, workerID string) error {
	var count int64
	if err := db.Model(&domain.WorkerProfile{}).
		Where("worker_id = ?", workerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	profile := domain.WorkerProfile{
		ID:        uuid.New(),
		WorkerID:  workerID,
		FirstName: workerID,
		LastName:  "User",
		State:     "Telangana",
		District:  "Hyderabad",
		IsActive:  true,
	}
	return db.Create(&profile).Error
}

// DeleteWorker is the explicit administrative removal; the core flows never
// delete identities or authenticators.
func (r *WorkerRepository) DeleteWorker(db *gorm.DB, workerID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worker_id = ?", workerID).Delete(&domain.Authenticator{}).Error; err != nil {
			return err
		}
		result := tx.Where("worker_id = ?", workerID).Delete(&domain.Worker{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrWorkerNotFound
		}
		return nil
	})
}

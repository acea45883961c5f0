package services

import (
	"crypto/subtle"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/repository"

	"gorm.io/gorm"
)

// IChallengeService tracks one-time ceremony challenges through their
// ISSUED -> CONSUMED lifecycle. Identified ceremonies bind the challenge to
// the worker row; anonymous ceremonies cannot know the identity until the
// responder reveals a user handle, so those live in the shared Redis store
// keyed by the challenge value itself (ISSUED -> EXPIRED via TTL).
type IChallengeService interface {
	IssueForWorker(db *gorm.DB, workerID string, challenge string) error
	IssueAnonymous(challenge string) error
	ConsumeForWorker(db *gorm.DB, worker *domain.Worker, presented string) error
	ConsumeAnonymous(presented string) error
}

type ChallengeService struct {
	workerRepo repository.IWorkerRepository
	redis      IRedisService
}

func NewChallengeService(workerRepo repository.IWorkerRepository, redis IRedisService) IChallengeService {
	return &ChallengeService{workerRepo: workerRepo, redis: redis}
}

func (s *ChallengeService) IssueForWorker(db *gorm.DB, workerID string, challenge string) error {
	return s.workerRepo.SetChallenge(db, workerID, challenge)
}

func (s *ChallengeService) IssueAnonymous(challenge string) error {
	return s.redis.StoreAnonymousChallenge(challenge)
}

// ConsumeForWorker clears the stored challenge whether or not the
// presentation matches: a challenge is single use, and a mismatched, absent,
// or already-consumed one all fail identically.
func (s *ChallengeService) ConsumeForWorker(db *gorm.DB, worker *domain.Worker, presented string) error {
	stored := worker.CurrentChallenge
	if err := s.workerRepo.ClearChallenge(db, worker.WorkerID); err != nil {
		return err
	}
	worker.CurrentChallenge = ""

	if stored == "" || presented == "" {
		return domain.ErrChallengeNotFound
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return domain.ErrChallengeNotFound
	}
	return nil
}

func (s *ChallengeService) ConsumeAnonymous(presented string) error {
	if presented == "" {
		return domain.ErrChallengeNotFound
	}
	found, err := s.redis.TakeAnonymousChallenge(presented)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrChallengeNotFound
	}
	return nil
}

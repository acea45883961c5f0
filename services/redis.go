package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/config"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// IRedisService holds the anonymous-ceremony challenges. Keys carry a TTL so
// abandoned ceremonies evict themselves, and the store is shared across
// server instances instead of living in process memory.
type IRedisService interface {
	StoreAnonymousChallenge(challenge string) error
	TakeAnonymousChallenge(challenge string) (bool, error)
}

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

// Challenges are secrets; key by their digest so raw values never appear in
// the keyspace.
func anonymousChallengeKey(challenge string) string {
	sum := sha256.Sum256([]byte(challenge))
	return fmt.Sprintf("challenge:anon:%s", hex.EncodeToString(sum[:]))
}

func challengeTTL() time.Duration {
	seconds := config.Conf.Application.Redis.ChallengeValidityInSeconds
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

func (s *RedisService) StoreAnonymousChallenge(challenge string) error {
	issuedAt := time.Now().UTC().Format(time.RFC3339)
	return s.rdb.Set(ctx, anonymousChallengeKey(challenge), issuedAt, challengeTTL()).Err()
}

// TakeAnonymousChallenge removes the challenge on success. GETDEL makes the
// consume atomic: of two racing presenters, exactly one wins.
func (s *RedisService) TakeAnonymousChallenge(challenge string) (bool, error) {
	err := s.rdb.GetDel(ctx, anonymousChallengeKey(challenge)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

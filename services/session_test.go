package services

import (
	"testing"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/domain"

	"github.com/stretchr/testify/assert"
)

func TestIssueSession_TokensCarryWorkerClaims(t *testing.T) {
	svc := NewSessionService([]byte("test-secret"), "workerconnection", time.Hour, 24*time.Hour)
	worker := &domain.Worker{Id: 1, WorkerID: "W1"}

	tokens, err := svc.IssueSession(worker)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	token, err := svc.ParseToken(tokens.AccessToken)
	assert.NoError(t, err)

	claims, err := svc.GetClaims(token)
	assert.NoError(t, err)
	assert.Equal(t, "W1", claims["sub"])
	assert.Equal(t, "workerconnection", claims["iss"])
	assert.NotEmpty(t, claims["jti"])
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	issuer := NewSessionService([]byte("secret-a"), "workerconnection", time.Hour, 24*time.Hour)
	verifier := NewSessionService([]byte("secret-b"), "workerconnection", time.Hour, 24*time.Hour)

	tokens, err := issuer.IssueSession(&domain.Worker{WorkerID: "W1"})
	assert.NoError(t, err)

	_, err = verifier.ParseToken(tokens.AccessToken)
	assert.Error(t, err)
}

func TestParseToken_NoSecretConfigured(t *testing.T) {
	svc := NewSessionService(nil, "workerconnection", time.Hour, 24*time.Hour)

	_, err := svc.ParseToken("whatever")
	assert.Error(t, err)
}

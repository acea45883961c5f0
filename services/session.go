package services

import (
	"errors"
	"time"

	"github.com/ghareeshmiti/workerconnection-backend/domain"
	"github.com/ghareeshmiti/workerconnection-backend/dtos/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-uuid"
)

type ISessionService interface {
	IssueSession(worker *domain.Worker) (*response.Tokens, error)
	ParseToken(tokenStr string) (*jwt.Token, error)
	GetClaims(token *jwt.Token) (jwt.MapClaims, error)
}

type SessionService struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewSessionService(secret []byte, issuer string, accessTtl time.Duration, refreshTtl time.Duration) *SessionService {
	return &SessionService{
		Secret:     secret,
		Issuer:     issuer,
		AccessTTL:  accessTtl,
		RefreshTTL: refreshTtl,
	}
}

// IssueSession mints an access/refresh token pair for a verified worker.
// Kiosk toggles never call this; it exists for the portal login flow.
func (s *SessionService) IssueSession(worker *domain.Worker) (*response.Tokens, error) {
	accessToken, err := s.generateToken(worker.WorkerID, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(worker.WorkerID, s.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &response.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *SessionService) generateToken(workerID string, duration time.Duration) (string, error) {
	jti, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": workerID,
		"iss": s.Issuer,
		"jti": jti,
		"exp": time.Now().Add(duration).Unix(),
	})

	return token.SignedString(s.Secret)
}

func (s *SessionService) ParseToken(tokenStr string) (*jwt.Token, error) {
	if len(s.Secret) == 0 {
		return nil, errors.New("JWT secret is not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})

	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token, nil
}

func (s *SessionService) GetClaims(token *jwt.Token) (jwt.MapClaims, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] == nil {
		return nil, errors.New("no claims")
	}
	return claims, nil
}

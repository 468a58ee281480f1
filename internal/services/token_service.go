package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const confirmPurpose = "email_confirm"

// TokenService issues and resolves signed, time-limited email confirmation tokens.
type TokenService interface {
	Issue(email string) (string, error)
	Resolve(token string) (string, error)
}

type confirmClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *tokenService) Issue(email string) (string, error) {
	if email == "" {
		return "", errors.New("email is required")
	}
	now := s.now()
	claims := &confirmClaims{
		Email:   email,
		Purpose: confirmPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *tokenService) Resolve(token string) (string, error) {
	claims := &confirmClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// HMAC only
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidOrExpiredToken
	}
	if claims.Purpose != confirmPurpose || claims.Email == "" {
		return "", ErrInvalidOrExpiredToken
	}
	return claims.Email, nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"smsportal/internal/metrics"
	"smsportal/internal/models"
	"smsportal/internal/repositories"
)

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(password, hash string) bool
	// Login returns the account only when the password verifies and the account is active.
	Login(ctx context.Context, email, password string) (*models.Account, error)
}

type authService struct {
	accounts  repositories.AccountRepository
	cost      int
	dummyHash []byte
}

func NewAuthService(accounts repositories.AccountRepository, cost int) AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// compared against when the email is unknown so both paths pay for one bcrypt run
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		panic("bcrypt dummy hash: " + err.Error())
	}
	return &authService{accounts: accounts, cost: cost, dummyHash: dummy}
}

func (s *authService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *authService) CheckPassword(password, hash string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(email)

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		s.CheckPassword(password, "")
		log.Warn().Str("email", email).Msg("[auth][login] unknown email")
		metrics.Login("invalid")
		return nil, ErrInvalidCredentials
	}
	if !s.CheckPassword(password, acc.PasswordHash) {
		log.Warn().Str("email", email).Int("account_id", acc.ID).Msg("[auth][login] password mismatch")
		metrics.Login("invalid")
		return nil, ErrInvalidCredentials
	}
	if !acc.IsActive {
		log.Warn().Str("email", email).Int("account_id", acc.ID).Msg("[auth][login] account not approved")
		metrics.Login("inactive")
		return nil, ErrAccountNotActive
	}

	metrics.Login("ok")
	return acc, nil
}

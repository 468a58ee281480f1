package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"smsportal/internal/authz"
	"smsportal/internal/models"
	"smsportal/internal/repositories"
	"smsportal/internal/utils"
)

type AccountService interface {
	// Signup creates an inactive account and mails a confirmation link. When the
	// mail cannot be sent the account stays created: the returned account is
	// non-nil and the error wraps ErrDispatchFailed.
	Signup(ctx context.Context, email, password string) (*models.Account, error)
	Confirm(ctx context.Context, token string) (*models.Account, error)
	Approve(ctx context.Context, actor *models.Account, id int) (*models.Account, error)
	Reject(ctx context.Context, actor *models.Account, id int) (*models.Account, error)
	ListAccounts(ctx context.Context, actor *models.Account) ([]*models.Account, error)
	GetByID(ctx context.Context, id int) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	SetPhone(ctx context.Context, acc *models.Account, raw string) (*string, error)
	SeedAdmin(ctx context.Context, email, password string) (*models.Account, error)
}

// AdminNotifier tells administrators that an account awaits approval.
type AdminNotifier interface {
	NotifyNewSignup(acc *models.Account) error
}

type accountService struct {
	repo     repositories.AccountRepository
	auth     AuthService
	tokens   TokenService
	emails   EmailService
	notifier AdminNotifier
	baseURL  string
	region   string
}

func NewAccountService(
	repo repositories.AccountRepository,
	auth AuthService,
	tokens TokenService,
	emails EmailService,
	notifier AdminNotifier,
	baseURL string,
	defaultRegion string,
) AccountService {
	return &accountService{
		repo:     repo,
		auth:     auth,
		tokens:   tokens,
		emails:   emails,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		region:   defaultRegion,
	}
}

func (s *accountService) Signup(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	log.Debug().Str("email", email).Msg("[account][signup] attempt")

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Warn().Str("email", email).Msg("[account][signup] email already exists")
		return nil, ErrDuplicateEmail
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	acc := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     false,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	log.Info().Str("email", email).Int("account_id", acc.ID).Msg("[account][signup] created")

	if s.notifier != nil {
		if err := s.notifier.NotifyNewSignup(acc); err != nil {
			log.Warn().Err(err).Int("account_id", acc.ID).Msg("[account][signup] admin notification failed")
		}
	}

	// Not transactional with the insert above: the account is kept even if the mail fails.
	token, err := s.tokens.Issue(acc.Email)
	if err != nil {
		return acc, fmt.Errorf("issue confirmation token: %w", err)
	}
	if err := s.emails.SendConfirmationEmail(acc.Email, s.confirmURL(token)); err != nil {
		log.Error().Err(err).Str("email", email).Msg("[account][signup] confirmation email failed")
		return acc, err
	}
	log.Info().Str("email", email).Msg("[account][signup] confirmation email sent")
	return acc, nil
}

func (s *accountService) confirmURL(token string) string {
	return s.baseURL + "/confirm/" + token
}

func (s *accountService) Confirm(ctx context.Context, token string) (*models.Account, error) {
	email, err := s.tokens.Resolve(token)
	if err != nil {
		return nil, err
	}
	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrNotFound
	}
	if err := s.repo.Activate(ctx, acc.ID); err != nil {
		return nil, err
	}
	acc.IsActive = true
	log.Info().Str("email", email).Int("account_id", acc.ID).Msg("[account][confirm] email confirmed")
	return acc, nil
}

func (s *accountService) Approve(ctx context.Context, actor *models.Account, id int) (*models.Account, error) {
	if !authz.CanManageAccounts(actor) {
		return nil, ErrUnauthorized
	}
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrNotFound
	}
	if err := s.repo.Activate(ctx, id); err != nil {
		return nil, err
	}
	acc.IsActive = true
	log.Info().Int("admin_id", actor.ID).Str("email", acc.Email).Msg("[account][approve] approved")
	return acc, nil
}

func (s *accountService) Reject(ctx context.Context, actor *models.Account, id int) (*models.Account, error) {
	if !authz.CanManageAccounts(actor) {
		return nil, ErrUnauthorized
	}
	if !authz.CanReject(actor, id) {
		return nil, ErrCannotRejectSelf
	}
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	log.Info().Int("admin_id", actor.ID).Str("email", acc.Email).Msg("[account][reject] rejected and deleted")
	return acc, nil
}

func (s *accountService) ListAccounts(ctx context.Context, actor *models.Account) ([]*models.Account, error) {
	if !authz.CanManageAccounts(actor) {
		return nil, ErrUnauthorized
	}
	return s.repo.List(ctx)
}

func (s *accountService) GetByID(ctx context.Context, id int) (*models.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

// SetPhone stores raw in E.164 form; an empty raw clears the number.
func (s *accountService) SetPhone(ctx context.Context, acc *models.Account, raw string) (*string, error) {
	var phone *string
	if strings.TrimSpace(raw) != "" {
		p, err := utils.NormalizePhone(raw, s.region)
		if err != nil {
			return nil, ErrInvalidPhoneNumber
		}
		phone = &p
	}
	if err := s.repo.UpdatePhone(ctx, acc.ID, phone); err != nil {
		return nil, err
	}
	acc.Phone = phone
	return phone, nil
}

func (s *accountService) SeedAdmin(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrDuplicateEmail
	}
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	acc := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	log.Info().Str("email", email).Int("account_id", acc.ID).Msg("[account][seed] admin created")
	return acc, nil
}

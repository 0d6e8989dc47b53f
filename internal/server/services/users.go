package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/logging"
	"github.com/themisai/themis/internal/server/auth"
	"github.com/themisai/themis/internal/server/config"
	"github.com/themisai/themis/internal/server/mailer"
	"github.com/themisai/themis/internal/server/models"
	"github.com/themisai/themis/internal/server/repositories/repomanager"
	"github.com/themisai/themis/internal/server/resettokens"
)

// UserService handles registration, sign-in, bearer token checks and the
// password reset flow.
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	resetTokens                 resettokens.Store
	mailer                      mailer.Mailer
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	resetTokenTTL               time.Duration
}

func NewUserService(m repomanager.RepositoryManager, tokens resettokens.Store, mail mailer.Mailer, log logging.Logger, cfg *config.Config) *UserService {
	ttl := cfg.ResetTokenTTL
	if ttl <= 0 {
		ttl = resettokens.DefaultTTL
	}
	return &UserService{
		repomanager:                 m,
		resetTokens:                 tokens,
		mailer:                      mail,
		log:                         log,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		resetTokenTTL:               ttl,
	}
}

// SignUpInput is the registration form. Address fields are optional.
type SignUpInput struct {
	FullName    string
	Email       string
	Password    string
	Gender      models.Gender
	DateOfBirth *time.Time
	Address     models.Address
}

// SignUpResult carries the new account and a token for it.
type SignUpResult struct {
	AccessToken string
	Person      *models.Person
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	email := NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	switch {
	case fullName == "":
		return nil, validation("full_name is required")
	case email == "":
		return nil, validation("email is required")
	case in.Password == "":
		return nil, validation("password is required")
	}

	gender := in.Gender
	if gender == "" {
		gender = models.GenderUnknown
	}
	if !gender.Valid() {
		return nil, validation("gender must be one of male, female, unknown")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, validation("password is too long")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	addr := in.Address
	p := &models.Person{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Gender:       gender,
		DateOfBirth:  in.DateOfBirth,
		IsActive:     true,
		Address:      &addr,
	}

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		var err error
		p, err = r.Persons.Create(ctx, p)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating person: %w", err)
	}
	if p.Address.Empty() {
		p.Address = nil
	}

	token, err := s.generateAccessToken(email)
	if err != nil {
		return nil, err
	}
	return &SignUpResult{AccessToken: token, Person: p}, nil
}

// SignIn checks the credentials and returns an access token. Unknown
// accounts and wrong passwords are indistinguishable to the caller.
func (s *UserService) SignIn(ctx context.Context, username, password string) (string, error) {
	email := NormalizeEmail(username)
	repo := s.repomanager.Repositories().Persons

	p, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", ErrBadCredentials
		}
		return "", fmt.Errorf("error loading person: %w", err)
	}
	if !p.IsActive || !auth.VerifyPassword(password, p.PasswordHash) {
		return "", ErrBadCredentials
	}

	if auth.NeedsRehash(p.PasswordHash) {
		if h, err := auth.HashPassword(password); err == nil {
			if err := repo.UpdatePasswordHash(ctx, p.ID, h); err != nil {
				s.log.Warn(ctx, "failed to upgrade password hash", "person_id", p.ID, "err", err)
			}
		}
	}

	return s.generateAccessToken(p.Email)
}

// Authenticate resolves a bearer token to an active account. Every failure
// is common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.Person, error) {
	email, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	p, err := s.repomanager.Repositories().Persons.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "failed to load token subject", "err", err)
		}
		return nil, common.ErrorUnauthorized
	}
	if !p.IsActive {
		return nil, common.ErrorUnauthorized
	}
	return p, nil
}

// ForgotPassword mails a reset link when the account exists. It never
// reports whether it does; failures are only logged.
func (s *UserService) ForgotPassword(ctx context.Context, email string) {
	email = NormalizeEmail(email)
	if email == "" {
		return
	}

	p, err := s.repomanager.Repositories().Persons.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "forgot password lookup failed", "err", err)
		}
		return
	}

	token, hash, err := resettokens.NewToken()
	if err != nil {
		s.log.Error(ctx, "failed to generate reset token", "err", err)
		return
	}
	if err := s.resetTokens.Save(ctx, hash, p.Email, s.resetTokenTTL); err != nil {
		s.log.Error(ctx, "failed to store reset token", "err", err)
		return
	}
	if err := s.mailer.SendReset(ctx, p.Email, token); err != nil {
		s.log.Error(ctx, "failed to send reset email", "err", err)
	}
}

// ResetPassword consumes token and sets a new password. The password is
// checked first so a rejected one leaves the token usable.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}
	if newPassword == "" {
		return validation("new_password is required")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return validation("password is too long")
		}
		return fmt.Errorf("hash password: %w", err)
	}

	email, err := s.resetTokens.Consume(ctx, resettokens.Hash(token))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("error consuming reset token: %w", err)
	}

	repo := s.repomanager.Repositories().Persons
	p, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("error loading person: %w", err)
	}
	if err := repo.UpdatePasswordHash(ctx, p.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

func (s *UserService) generateAccessToken(email string) (string, error) {
	token, err := auth.GenerateToken(email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// TokenMinter issues session tokens.
type TokenMinter interface {
	Mint(u *User) (string, error)
}

// LoginLimiter throttles repeated failures.
type LoginLimiter interface {
	Check(ctx context.Context, email string) error
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo    Repository
	hasher  PasswordHasher
	tokens  TokenMinter
	limiter LoginLimiter
	logger  *slog.Logger
}

// NewService constructs a new Service. limiter may be nil.
func NewService(repo Repository, hasher PasswordHasher, tokens TokenMinter, limiter LoginLimiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &Service{repo: repo, hasher: hasher, tokens: tokens, limiter: limiter, logger: logger}
}

// NormalizeEmail trims and lowercases an email for storage and comparison.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// Login verifies credentials and mints a session token.
//
// Unknown email or wrong password yields shared.ErrInvalidCredentials. A
// correct password on a deactivated account yields shared.ErrAccountInactive.
// Storage, hashing and signing faults are returned wrapped.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if err := s.limiter.Check(ctx, email); err != nil {
		if errors.Is(err, shared.ErrRateLimited) {
			return "", err
		}
		s.logger.Warn("login limiter unavailable", slog.Any("error", err))
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.recordFailure(ctx, email)
			return "", shared.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: login lookup: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("auth: verify password: %w", err)
	}
	if !ok {
		s.recordFailure(ctx, email)
		return "", shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", shared.ErrAccountInactive
	}

	token, err := s.tokens.Mint(user)
	if err != nil {
		return "", fmt.Errorf("auth: mint token: %w", err)
	}
	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("login limiter reset", slog.Any("error", err))
	}
	return token, nil
}

// Register hashes the password and stores a new account under the
// normalized email.
func (s *Service) Register(ctx context.Context, in Registration) (*User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.repo.InsertUser(ctx, NewUser{
		Email:        NormalizeEmail(in.Email),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("login limiter record", slog.Any("error", err))
	}
}

type noopLimiter struct{}

func (noopLimiter) Check(context.Context, string) error         { return nil }
func (noopLimiter) RecordFailure(context.Context, string) error { return nil }
func (noopLimiter) Reset(context.Context, string) error         { return nil }

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("Invalid credentials")

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
}

type AuthService struct {
	repo            AdminRepository
	defaultUsername string
	defaultPassword string
	cost            int

	// set once the default admin is known to exist
	seeded atomic.Bool
}

func NewAuthService(repo AdminRepository, defaultUsername, defaultPassword string) *AuthService {
	return &AuthService{
		repo:            repo,
		defaultUsername: defaultUsername,
		defaultPassword: defaultPassword,
		cost:            bcrypt.DefaultCost,
	}
}

// EnsureDefaultAdmin creates the configured default admin when it does not
// exist yet. It never overwrites an existing password.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	if err := s.ensureDefaultAdmin(ctx); err != nil {
		return err
	}
	s.seeded.Store(true)
	return nil
}

func (s *AuthService) ensureDefaultAdmin(ctx context.Context) error {
	if s.defaultUsername == "" || s.defaultPassword == "" {
		return nil
	}

	_, err := s.repo.FindByUsername(ctx, s.defaultUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("find default admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	err = s.repo.Create(ctx, &model.Admin{
		Username:     s.defaultUsername,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	})
	if errors.Is(err, model.ErrDuplicate) {
		// seeded concurrently by another instance
		return nil
	}
	if err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	logger.Info("default admin created", "username", s.defaultUsername)
	return nil
}

func (s *AuthService) Login(ctx context.Context, p model.LoginRequest) (*model.Admin, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if !s.seeded.Load() {
		if err := s.EnsureDefaultAdmin(ctx); err != nil {
			return nil, err
		}
	}

	admin, err := s.repo.FindByUsername(ctx, p.Username)
	if errors.Is(err, model.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(p.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

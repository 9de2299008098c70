package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_LoginSeedsDefaultAdmin(t *testing.T) {
	repo := new(MockAdminRepository)
	ctx := context.Background()

	var stored *model.Admin
	repo.On("FindByUsername", ctx, "admin").Return(nil, model.ErrNotFound).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*model.Admin")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*model.Admin)
	}).Return(nil).Once()
	repo.On("FindByUsername", ctx, "admin").Return(func(context.Context, string) *model.Admin { return stored }, nil)

	svc := NewAuthService(repo, "admin", "admin123")
	admin, err := svc.Login(ctx, model.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("admin123")))
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	existing := &model.Admin{Username: "admin", PasswordHash: hashed(t, "admin123")}

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockAdminRepository)
		repo.On("FindByUsername", ctx, "admin").Return(existing, nil)

		_, err := NewAuthService(repo, "admin", "admin123").Login(ctx, model.LoginRequest{Username: "admin", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockAdminRepository)
		repo.On("FindByUsername", ctx, "admin").Return(existing, nil)
		repo.On("FindByUsername", ctx, "ghost").Return(nil, model.ErrNotFound)

		_, err := NewAuthService(repo, "admin", "admin123").Login(ctx, model.LoginRequest{Username: "ghost", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		repo := new(MockAdminRepository)
		_, err := NewAuthService(repo, "admin", "admin123").Login(ctx, model.LoginRequest{Username: "admin"})
		assert.True(t, model.IsValidationError(err))
		repo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}

func TestAuthService_SeedsOnlyUntilSuccess(t *testing.T) {
	ctx := context.Background()
	existing := &model.Admin{Username: "admin", PasswordHash: hashed(t, "admin123")}
	req := model.LoginRequest{Username: "admin", Password: "admin123"}

	repo := new(MockAdminRepository)
	repo.On("FindByUsername", ctx, "admin").Return(nil, errors.New("connection refused")).Once()
	repo.On("FindByUsername", ctx, "admin").Return(existing, nil)
	svc := NewAuthService(repo, "admin", "admin123")

	_, err := svc.Login(ctx, req)
	require.Error(t, err)

	// seed lookup and login lookup
	_, err = svc.Login(ctx, req)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FindByUsername", 3)

	// login lookup only
	_, err = svc.Login(ctx, req)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FindByUsername", 4)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_EnsureDefaultAdminRace(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAdminRepository)
	repo.On("FindByUsername", ctx, "admin").Return(nil, model.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(model.ErrDuplicate)

	assert.NoError(t, NewAuthService(repo, "admin", "admin123").EnsureDefaultAdmin(ctx))
}

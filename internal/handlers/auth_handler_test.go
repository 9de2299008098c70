package handlers

import (
	"testing"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, model.LoginRequest{Username: "admin", Password: "admin123"}).
			Return(&model.Admin{Username: "admin", PasswordHash: "secret-hash"}, nil)

		ctx := setupTestContext("POST", "/api/auth/login", []byte(`{"username":"admin","password":"admin123"}`), nil)
		NewAuthHandler(svc).Login(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"success":true,"admin":{"username":"admin"}}`, string(ctx.Response.Body()))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidCredentials)

		ctx := setupTestContext("POST", "/api/auth/login", []byte(`{"username":"admin","password":"x"}`), nil)
		NewAuthHandler(svc).Login(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		assert.Equal(t, "Invalid credentials", decodeBody(t, ctx)["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, &model.ValidationError{Message: "Username and password required"})

		ctx := setupTestContext("POST", "/api/auth/login", []byte(`{}`), nil)
		NewAuthHandler(svc).Login(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		body := decodeBody(t, ctx)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Username and password required", body["message"])
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockAuthService)
		ctx := setupTestContext("POST", "/api/auth/login", []byte(`{`), nil)
		NewAuthHandler(svc).Login(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

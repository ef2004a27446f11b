package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

func createTestUserService() UserService {
	return NewUserService(newMockUserRepository(), zap.NewNop())
}

func TestUserService_Register_Success(t *testing.T) {
	userService := createTestUserService()

	req := &domain.RegisterRequest{
		Email:       "Shelsea@Example.com",
		Password:    "password123",
		Name:        "Shelsea",
		AccountType: "wholesale",
	}

	user, err := userService.Register(req)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.ID == "" {
		t.Error("Expected a generated user ID")
	}
	if user.Email != "shelsea@example.com" {
		t.Errorf("Expected lowercased email, got %s", user.Email)
	}
	if user.Tier != domain.TierWholesale {
		t.Errorf("Expected wholesale tier, got %s", user.Tier)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		t.Error("Password hash verification failed")
	}
}

func TestUserService_Register_DefaultsToRetail(t *testing.T) {
	userService := createTestUserService()

	user, err := userService.Register(&domain.RegisterRequest{
		Email:    "a@example.com",
		Password: "password123",
		Name:     "A",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Tier != domain.TierRetail {
		t.Errorf("Expected retail tier by default, got %s", user.Tier)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	userService := createTestUserService()

	req := &domain.RegisterRequest{Email: "dup@example.com", Password: "password123", Name: "First"}
	if _, err := userService.Register(req); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	_, err := userService.Register(&domain.RegisterRequest{Email: "DUP@example.com", Password: "password456", Name: "Second"})
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Login_Success(t *testing.T) {
	userService := createTestUserService()

	if _, err := userService.Register(&domain.RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := userService.Login(&domain.LoginRequest{Email: "login@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "login@example.com" {
		t.Errorf("Unexpected user: %s", user.Email)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	userService := createTestUserService()

	if _, err := userService.Register(&domain.RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := userService.Login(&domain.LoginRequest{Email: "login@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	userService := createTestUserService()

	_, err := userService.Login(&domain.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	userService := createTestUserService()

	_, err := userService.GetUserByID("missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

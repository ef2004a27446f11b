package service

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/config"
	"github.com/teesbyshelsea/storefront/internal/domain"
)

func testJWTConfig(ttl time.Duration) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "tees-by-shelsea-test"},
		JWT: config.JWTConfig{Secret: "test-secret", AccessTokenTTL: ttl},
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "shelsea@example.com",
		Tier:  domain.TierRetail,
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService(testJWTConfig(time.Hour), zap.NewNop())

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("Expected user-1, got %s", claims.UserID)
	}
	if claims.Email != "shelsea@example.com" {
		t.Errorf("Unexpected email claim: %s", claims.Email)
	}
	if claims.Tier != domain.TierRetail {
		t.Errorf("Unexpected tier claim: %s", claims.Tier)
	}
	if claims.Issuer != "tees-by-shelsea-test" {
		t.Errorf("Unexpected issuer: %s", claims.Issuer)
	}
}

func TestJWTService_Validate_Expired(t *testing.T) {
	svc := NewJWTService(testJWTConfig(-time.Minute), zap.NewNop())

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	issuer := NewJWTService(testJWTConfig(time.Hour), zap.NewNop())
	token, err := issuer.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	other := NewJWTService(&config.Config{
		App: config.AppConfig{Name: "tees-by-shelsea-test"},
		JWT: config.JWTConfig{Secret: "different-secret", AccessTokenTTL: time.Hour},
	}, zap.NewNop())

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	svc := NewJWTService(testJWTConfig(time.Hour), zap.NewNop())

	if _, err := svc.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

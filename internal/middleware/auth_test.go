package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/teesbyshelsea/storefront/internal/domain"
	"github.com/teesbyshelsea/storefront/internal/service"
)

// mockJWTService is a JWTService backed by an in-memory token table.
type mockJWTService struct {
	validTokens   map[string]*service.Claims
	expiredTokens map[string]bool
}

func newMockJWTService() *mockJWTService {
	return &mockJWTService{
		validTokens:   make(map[string]*service.Claims),
		expiredTokens: make(map[string]bool),
	}
}

func (m *mockJWTService) Generate(user *domain.User) (string, error) {
	token := "mock_token_" + user.ID
	m.validTokens[token] = &service.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Tier:   user.Tier,
	}
	return token, nil
}

func (m *mockJWTService) Validate(tokenString string) (*service.Claims, error) {
	if m.expiredTokens[tokenString] {
		return nil, service.ErrTokenExpired
	}
	claims, exists := m.validTokens[tokenString]
	if !exists {
		return nil, service.ErrInvalidToken
	}
	return claims, nil
}

func (m *mockJWTService) markExpired(token string) {
	m.expiredTokens[token] = true
}

func createTestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user != nil {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("authenticated"))
		} else {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("not authenticated"))
		}
	}
}

func TestAuth_Success(t *testing.T) {
	mockJWT := newMockJWTService()
	logger := zap.NewNop()

	user := &domain.User{
		ID:    "user-1",
		Email: "shelsea@example.com",
		Tier:  domain.TierWholesale,
	}

	token, err := mockJWT.Generate(user)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	handler := Auth(mockJWT, logger)(createTestHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = req.WithContext(withRequestID(req.Context(), "test-id"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "authenticated" {
		t.Errorf("Expected 'authenticated', got %s", rr.Body.String())
	}
}

func TestAuth_InjectsClaimsUser(t *testing.T) {
	mockJWT := newMockJWTService()

	user := &domain.User{ID: "user-1", Email: "shelsea@example.com", Tier: domain.TierWholesale}
	token, _ := mockJWT.Generate(user)

	var got *domain.User
	handler := Auth(mockJWT, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got == nil {
		t.Fatal("Expected user in context, got nil")
	}
	if got.ID != "user-1" || got.Email != "shelsea@example.com" || got.Tier != domain.TierWholesale {
		t.Errorf("Unexpected context user: %+v", got)
	}
}

func TestAuth_MissingAuthHeader(t *testing.T) {
	handler := Auth(newMockJWTService(), zap.NewNop())(createTestHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req = req.WithContext(withRequestID(req.Context(), "test-id"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestAuth_InvalidAuthHeader(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{"missing Bearer prefix", "invalid_token"},
		{"empty token", "Bearer "},
		{"only Bearer", "Bearer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Auth(newMockJWTService(), zap.NewNop())(createTestHandler())

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tc.header)
			req = req.WithContext(withRequestID(req.Context(), "test-id"))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rr.Code)
			}
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(newMockJWTService(), zap.NewNop())(createTestHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid_token")
	req = req.WithContext(withRequestID(req.Context(), "test-id"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	mockJWT := newMockJWTService()

	token, err := mockJWT.Generate(&domain.User{ID: "user-1", Email: "a@example.com", Tier: domain.TierRetail})
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	mockJWT.markExpired(token)

	handler := Auth(mockJWT, zap.NewNop())(createTestHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = req.WithContext(withRequestID(req.Context(), "test-id"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestUserFromContext(t *testing.T) {
	user := &domain.User{
		ID:    "user-1",
		Email: "shelsea@example.com",
		Tier:  domain.TierRetail,
	}

	ctx := context.WithValue(context.Background(), contextKeyUser, user)
	retrieved := UserFromContext(ctx)

	if retrieved == nil {
		t.Fatal("Expected user from context, got nil")
	}
	if retrieved.ID != user.ID {
		t.Errorf("Expected user ID %s, got %s", user.ID, retrieved.ID)
	}

	if got := UserFromContext(context.Background()); got != nil {
		t.Error("Expected nil from empty context, got user")
	}
}

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"clarity/internal/auth"
	"clarity/internal/handler"
	"clarity/internal/model"
	"clarity/internal/repository"
	"clarity/internal/service"
)

type stubUserRepo struct {
	users map[string]*model.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uint(len(s.users) + 1)
	s.users[user.Email] = user
	return nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTransactionRepo struct {
	transactions []model.Transaction
}

func (s *stubTransactionRepo) Create(ctx context.Context, tx *model.Transaction) error { return nil }
func (s *stubTransactionRepo) Save(ctx context.Context, tx *model.Transaction) error   { return nil }
func (s *stubTransactionRepo) Delete(ctx context.Context, tx *model.Transaction) error { return nil }

func (s *stubTransactionRepo) FindByID(ctx context.Context, userID, id uint) (*model.Transaction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTransactionRepo) FindByOwner(ctx context.Context, userID uint, filter repository.TransactionFilter, skip, limit int) ([]model.Transaction, error) {
	return s.transactions, nil
}

func (s *stubTransactionRepo) ListByOwner(ctx context.Context, userID uint) ([]model.Transaction, error) {
	return s.transactions, nil
}

func (s *stubTransactionRepo) ListInRange(ctx context.Context, userID uint, from, to time.Time) ([]model.Transaction, error) {
	return s.transactions, nil
}

func (s *stubTransactionRepo) SumByCategory(ctx context.Context, userID uint, txType model.TransactionType) ([]repository.CategorySum, error) {
	return nil, nil
}

func (s *stubTransactionRepo) DistinctCategories(ctx context.Context, userID uint) ([]string, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (*echo.Echo, *auth.JWTService) {
	t.Helper()

	jwtService := auth.NewJWTService("test-secret")
	tokenStore := auth.NewTokenStore(nil)
	userRepo := &stubUserRepo{users: map[string]*model.User{
		"alice@example.com": {ID: 1, Email: "alice@example.com", FullName: "Alice", IsActive: true},
	}}
	transactionRepo := &stubTransactionRepo{}

	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	transactionService := service.NewTransactionService(transactionRepo, nil)
	dashboardService := service.NewDashboardService(transactionRepo, nil)

	e := echo.New()
	Register(
		e,
		authService,
		handler.NewAuthHandler(authService),
		handler.NewTransactionHandler(transactionService),
		handler.NewDashboardHandler(dashboardService),
	)
	return e, jwtService
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	e, jwtService := newTestServer(t)

	paths := []string{
		"/auth/me",
		"/transactions",
		"/dashboard/stats",
		"/dashboard/monthly",
		"/categories",
	}

	t.Run("no token", func(t *testing.T) {
		for _, path := range paths {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token without the bearer scheme", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken("alice@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.Header.Set(echo.HeaderAuthorization, token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for an unknown identity", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken("ghost@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSecuredRoutesResolveUser(t *testing.T) {
	e, jwtService := newTestServer(t)

	token, err := jwtService.GenerateAccessToken("alice@example.com")
	assert.NoError(t, err)

	t.Run("me returns the caller's profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice@example.com")
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("transactions listing is reachable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHealthzIsPublic(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clarity/internal/auth"
	"clarity/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new user with a hashed password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", ctx, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewAuthService(userRepo, auth.NewJWTService("secret"), new(MockTokenStore))
		user, err := svc.Signup(ctx, "alice@example.com", "hunter22", "Alice")

		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.FullName)
		assert.True(t, user.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		existing := &model.User{ID: 1, Email: "alice@example.com"}
		userRepo.On("FindByEmail", ctx, "alice@example.com").Return(existing, nil)

		svc := NewAuthService(userRepo, auth.NewJWTService("secret"), new(MockTokenStore))
		user, err := svc.Signup(ctx, "alice@example.com", "hunter22", "Alice")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrEmailTaken)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("secret")

	t.Run("returns tokens for correct credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		stored := &model.User{ID: 1, Email: "alice@example.com", PasswordHash: hashPassword(t, "hunter22")}
		userRepo.On("FindByEmail", ctx, "alice@example.com").Return(stored, nil)
		tokenStore.On("StoreRefreshToken", ctx, mock.AnythingOfType("string"), "alice@example.com", auth.RefreshTokenExpiry).Return(nil)

		svc := NewAuthService(userRepo, jwtService, tokenStore)
		access, refresh, user, err := svc.Login(ctx, "alice@example.com", "hunter22")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, stored, user)

		claims, err := jwtService.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", claims.Email)
		tokenStore.AssertExpectations(t)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		stored := &model.User{ID: 1, Email: "alice@example.com", PasswordHash: hashPassword(t, "hunter22")}
		userRepo.On("FindByEmail", ctx, "alice@example.com").Return(stored, nil)

		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))
		_, _, _, err := svc.Login(ctx, "alice@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("secret")

	t.Run("resolves a valid token to its user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		stored := &model.User{ID: 1, Email: "alice@example.com"}
		userRepo.On("FindByEmail", ctx, "alice@example.com").Return(stored, nil)

		token, err := jwtService.GenerateAccessToken("alice@example.com")
		assert.NoError(t, err)

		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))
		user, err := svc.Authenticate(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, stored, user)
	})

	t.Run("rejects a malformed token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))

		user, err := svc.Authenticate(ctx, "not-a-token")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidToken)
		userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService("other-secret")
		token, err := other.GenerateAccessToken("alice@example.com")
		assert.NoError(t, err)

		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err = svc.Authenticate(ctx, token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token whose identity no longer resolves", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		token, err := jwtService.GenerateAccessToken("ghost@example.com")
		assert.NoError(t, err)

		svc := NewAuthService(userRepo, jwtService, new(MockTokenStore))
		_, err = svc.Authenticate(ctx, token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("secret")

	t.Run("issues a new access token for a stored refresh token", func(t *testing.T) {
		tokenStore := new(MockTokenStore)
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken("alice@example.com")
		assert.NoError(t, err)
		tokenStore.On("GetRefreshToken", ctx, tokenID).Return("alice@example.com", nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)
		access, err := svc.Refresh(ctx, refreshToken)

		assert.NoError(t, err)
		claims, err := jwtService.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("rejects a refresh token missing from the store", func(t *testing.T) {
		tokenStore := new(MockTokenStore)
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken("alice@example.com")
		assert.NoError(t, err)
		tokenStore.On("GetRefreshToken", ctx, tokenID).Return("", assert.AnError)

		svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)
		_, err = svc.Refresh(ctx, refreshToken)

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := svc.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("secret")

	t.Run("deletes the stored refresh token", func(t *testing.T) {
		tokenStore := new(MockTokenStore)
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken("alice@example.com")
		assert.NoError(t, err)
		tokenStore.On("DeleteRefreshToken", ctx, tokenID).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)
		assert.NoError(t, svc.Logout(ctx, refreshToken))
		tokenStore.AssertExpectations(t)
	})

	t.Run("rejects an unparseable token", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		assert.ErrorIs(t, svc.Logout(ctx, "garbage"), ErrInvalidRefreshToken)
	})
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pantrio/internal/config"
	"pantrio/internal/domain"
	"pantrio/internal/service"
	"pantrio/mocks"
)

func setupAuthService() (service.AuthService, *mocks.MockUserRepo) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, config.JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "pantrio-test",
	})
	return svc, userRepo
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	svc, userRepo := setupAuthService()
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "  Claire@Example.COM ",
		Password: "correct horse",
		FullName: " Claire Fontaine ",
	})

	require.NoError(t, err)
	assert.Equal(t, "claire@example.com", user.Email)
	assert.Equal(t, "Claire Fontaine", user.FullName)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, userRepo := setupAuthService()
	userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "claire@example.com",
		Password: "correct horse",
		FullName: "Claire",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	svc, userRepo := setupAuthService()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "claire@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "claire@example.com").Return(user, nil)

	token, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "claire@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "pantrio-test", claims.Issuer)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo := setupAuthService()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo.On("GetByEmail", mock.Anything, "claire@example.com").Return(&domain.User{
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	_, err = svc.Login(context.Background(), service.LoginInput{
		Email:    "claire@example.com",
		Password: "battery staple",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, userRepo := setupAuthService()
	userRepo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever12",
	})
	// not-found is masked as invalid credentials
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, userRepo := setupAuthService()
	userRepo.On("GetByEmail", mock.Anything, mock.Anything).Return(&domain.User{
		IsActive: false,
	}, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "claire@example.com",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_ValidateToken_RejectsTampered(t *testing.T) {
	svc, _ := setupAuthService()

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

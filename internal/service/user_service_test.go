package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"note-auth-server/internal/model"
	"note-auth-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const profileTTL = 60 * time.Second

func newUserService() (*service.UserService, *MockUserRepository, *MockTokenRepository, *MockTokenService) {
	userRepository := new(MockUserRepository)
	tokenRepo := new(MockTokenRepository)
	tokenService := new(MockTokenService)
	return service.NewUserService(userRepository, tokenRepo, tokenService, profileTTL), userRepository, tokenRepo, tokenService
}

// 1. Попадание в кэш: БД не трогается
func TestGetPublicProfile_CacheHit(t *testing.T) {
	userService, userRepository, tokenRepo, _ := newUserService()
	ctx := context.Background()

	cached := &model.PublicProfile{UUID: "u1", Email: "user@example.com"}
	tokenRepo.On("GetPublicProfile", mock.Anything, "u1").Return(cached, nil)

	profile, err := userService.GetPublicProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cached, profile)
	userRepository.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything)
}

// 2. Промах кэша: чтение из БД и запись снимка с коротким TTL
func TestGetPublicProfile_CacheMiss(t *testing.T) {
	userService, userRepository, tokenRepo, _ := newUserService()
	ctx := context.Background()

	tokenRepo.On("GetPublicProfile", mock.Anything, "u1").Return(nil, nil)
	user := &model.User{UUID: "u1", Email: "user@example.com"}
	userRepository.On("FindByUUID", mock.Anything, "u1").Return(user, nil)
	tokenRepo.On("SetPublicProfile", mock.Anything, mock.MatchedBy(func(profile *model.PublicProfile) bool {
		return profile.UUID == "u1" && profile.Email == "user@example.com"
	}), profileTTL).Return(nil)

	profile, err := userService.GetPublicProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.UUID)
	tokenRepo.AssertExpectations(t)
}

// 3. Кэш — оптимизация: ошибки Redis не мешают отдать профиль из БД
func TestGetPublicProfile_CacheErrorsIgnored(t *testing.T) {
	userService, userRepository, tokenRepo, _ := newUserService()
	ctx := context.Background()

	tokenRepo.On("GetPublicProfile", mock.Anything, "u1").
		Return(nil, errors.New("redis недоступен"))
	user := &model.User{UUID: "u1", Email: "user@example.com"}
	userRepository.On("FindByUUID", mock.Anything, "u1").Return(user, nil)
	tokenRepo.On("SetPublicProfile", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis недоступен"))

	profile, err := userService.GetPublicProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.UUID)
}

func TestGetPublicProfile_UserNotFound(t *testing.T) {
	userService, userRepository, tokenRepo, _ := newUserService()
	ctx := context.Background()

	tokenRepo.On("GetPublicProfile", mock.Anything, "ghost").Return(nil, nil)
	userRepository.On("FindByUUID", mock.Anything, "ghost").
		Return(nil, errors.New("sql: no rows in result set"))

	_, err := userService.GetPublicProfile(ctx, "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найден")
}

// 4. Удаление аккаунта: сбой отзыва токенов не блокирует удаление данных
func TestDeleteAccount(t *testing.T) {
	userService, userRepository, _, tokenService := newUserService()
	ctx := context.Background()

	tokenService.On("InvalidateAccessToken", mock.Anything, "access").
		Return(errors.New("redis недоступен"))
	tokenService.On("DeleteRefreshToken", mock.Anything, "u1").Return(nil)
	userRepository.On("DeleteUser", mock.Anything, "u1").Return(nil)

	require.NoError(t, userService.DeleteAccount(ctx, "u1", "access"))
	userRepository.AssertExpectations(t)
}

func TestDeleteAccount_DatabaseError(t *testing.T) {
	userService, userRepository, _, tokenService := newUserService()
	ctx := context.Background()

	tokenService.On("InvalidateAccessToken", mock.Anything, "access").Return(nil)
	tokenService.On("DeleteRefreshToken", mock.Anything, "u1").Return(nil)
	userRepository.On("DeleteUser", mock.Anything, "u1").
		Return(errors.New("БД недоступна"))

	assert.Error(t, userService.DeleteAccount(ctx, "u1", "access"))
}

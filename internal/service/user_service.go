package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"note-auth-server/internal/model"
	"note-auth-server/internal/ports"
)

// UserService : публичный профиль с кэшем в Redis и удаление аккаунта
type UserService struct {
	userRepository ports.UserRepository
	tokenRepo      ports.TokenRepository
	tokenService   ports.TokenService
	profileTTL     time.Duration
}

func NewUserService(
	userRepository ports.UserRepository,
	tokenRepo ports.TokenRepository,
	tokenService ports.TokenService,
	profileTTL time.Duration,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		tokenRepo:      tokenRepo,
		tokenService:   tokenService,
		profileTTL:     profileTTL,
	}
}

// GetPublicProfile читает профиль через кэш publicProfile:<uuid>.
// Промах кэша — чтение из БД и запись снимка с коротким TTL.
func (s *UserService) GetPublicProfile(ctx context.Context, userUUID string) (*model.PublicProfile, error) {
	cached, err := s.tokenRepo.GetPublicProfile(ctx, userUUID)
	if err != nil {
		log.Printf("[UserService] ошибка чтения кэша профиля: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.userRepository.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("[UserService] пользователь не найден: %w", err)
	}

	profile := &model.PublicProfile{
		UUID:      user.UUID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	if err := s.tokenRepo.SetPublicProfile(ctx, profile, s.profileTTL); err != nil {
		// кэш — оптимизация, профиль отдаем и без него
		log.Printf("[UserService] ошибка записи кэша профиля: %v", err)
	}

	return profile, nil
}

// DeleteAccount удаляет аккаунт. Токены отзываются best-effort до удаления
// данных: сбой отзыва не блокирует удаление.
func (s *UserService) DeleteAccount(ctx context.Context, userUUID, accessToken string) error {
	if err := s.tokenService.InvalidateAccessToken(ctx, accessToken); err != nil {
		log.Printf("[UserService] не удалось отозвать access токен: %v", err)
	}

	if err := s.tokenService.DeleteRefreshToken(ctx, userUUID); err != nil {
		log.Printf("[UserService] не удалось удалить refresh токен: %v", err)
	}

	if err := s.userRepository.DeleteUser(ctx, userUUID); err != nil {
		return fmt.Errorf("[UserService] не удалось удалить пользователя: %w", err)
	}

	return nil
}

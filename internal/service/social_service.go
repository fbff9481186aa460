package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/ports"
	"note-auth-server/internal/util"

	"github.com/google/uuid"
)

// SocialService : вход через OAuth-провайдеров и отвязка аккаунтов.
// Redirect/consent-флоу провайдера находится за границей сервиса — сюда
// приходит уже полученный профиль.
type SocialService struct {
	tokenService   ports.TokenService
	userRepository ports.UserRepository
	jwtConfig      *config.JWTConfig
}

func NewSocialService(
	tokenService ports.TokenService,
	userRepository ports.UserRepository,
	jwtConfig *config.JWTConfig,
) *SocialService {
	return &SocialService{
		tokenService:   tokenService,
		userRepository: userRepository,
		jwtConfig:      jwtConfig,
	}
}

// LoginWithProvider находит пользователя по идентичности провайдера,
// при первом входе создает его вместе с привязкой, затем выдает пару токенов
func (s *SocialService) LoginWithProvider(ctx context.Context, provider model.Provider, profile *model.SocialProfile, rememberMe bool) (*model.TokensPair, error) {
	user, err := s.userRepository.FindUserByProviderIdentity(ctx, provider, profile.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("[SocialService] ошибка поиска пользователя: %w", err)
	}

	if user == nil {
		user, err = s.registerFromProfile(ctx, provider, profile)
		if err != nil {
			return nil, err
		}
	} else if profile.SocialRefreshToken != "" {
		// провайдер мог выдать новый refresh токен — переподвязываем
		if err := s.userRepository.DeleteSocialAccount(ctx, user.UUID, provider); err != nil {
			// вход продолжается со старой привязкой
			log.Printf("[SocialService] не удалось обновить привязку %s у пользователя %s: %v", provider, user.UUID, err)
		} else if err := s.linkAccount(ctx, user.UUID, provider, profile); err != nil {
			return nil, err
		}
	}

	ttlStr := s.jwtConfig.RefreshTokenTTL
	if rememberMe {
		ttlStr = s.jwtConfig.RememberRefreshTTL
	}
	refreshTTL, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, util.LogError("[SocialService] ошибка парсинга TTL refresh токена", err)
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user, refreshTTL, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("[SocialService] ошибка генерации токенов: %w", err)
	}

	return tokens, nil
}

// UnlinkProvider отвязывает аккаунт провайдера: обменивает сохраненный
// refresh токен на access токен провайдера, вызывает unlink-endpoint и
// удаляет привязку. Токен провайдера живет только внутри этого вызова.
func (s *SocialService) UnlinkProvider(ctx context.Context, userUUID string, provider model.Provider) error {
	providerAccessToken, err := s.tokenService.GenerateOAuthToken(ctx, userUUID, provider)
	if err != nil {
		return err
	}

	if err := s.tokenService.RevokeOAuthToken(ctx, provider, providerAccessToken); err != nil {
		return err
	}

	if err := s.userRepository.DeleteSocialAccount(ctx, userUUID, provider); err != nil {
		return fmt.Errorf("[SocialService] не удалось удалить привязку: %w", err)
	}

	return nil
}

func (s *SocialService) registerFromProfile(ctx context.Context, provider model.Provider, profile *model.SocialProfile) (*model.User, error) {
	user := &model.User{
		UUID:  uuid.New().String(),
		Email: profile.Email,
		Role:  defaultUserRole,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("[SocialService] ошибка создания пользователя: %w", err)
	}

	if err := s.linkAccount(ctx, created.UUID, provider, profile); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *SocialService) linkAccount(ctx context.Context, userUUID string, provider model.Provider, profile *model.SocialProfile) error {
	account := &model.SocialAccount{
		UUID:               uuid.New().String(),
		UserUUID:           userUUID,
		Provider:           provider,
		ProviderUserID:     profile.ProviderUserID,
		SocialRefreshToken: profile.SocialRefreshToken,
	}

	if err := s.userRepository.CreateSocialAccount(ctx, account); err != nil {
		return fmt.Errorf("[SocialService] не удалось привязать аккаунт: %w", err)
	}

	return nil
}

package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/ports"
	"note-auth-server/internal/security"
	"note-auth-server/internal/util"
)

const defaultOAuthTimeout = 5 * time.Second

// TokenService : ядро жизненного цикла токенов.
// Выпуск, проверка, ротация и отзыв пар access/refresh, обмен токенов
// у OAuth-провайдеров, токены подтверждения почты.
// Не зависит ни от одного другого сервиса.
type TokenService struct {
	codec      ports.TokenCodec
	tokenRepo  ports.TokenRepository
	userRepo   ports.UserRepository
	oauthCfg   *config.OAuthConfig
	httpClient *http.Client
}

func NewTokenService(
	codec ports.TokenCodec,
	tokenRepo ports.TokenRepository,
	userRepo ports.UserRepository,
	oauthCfg *config.OAuthConfig,
) *TokenService {
	timeout := defaultOAuthTimeout
	if oauthCfg != nil && oauthCfg.Timeout != "" {
		parsed, err := time.ParseDuration(oauthCfg.Timeout)
		if err != nil {
			log.Printf("некорректный oauth.timeout %q, используется %s: %v", oauthCfg.Timeout, defaultOAuthTimeout, err)
		} else {
			timeout = parsed
		}
	}

	return &TokenService{
		codec:      codec,
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
		oauthCfg:   oauthCfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateTokens выпускает пару токенов.
// Access токен живет фиксированный настроенный срок, refresh — refreshTTL.
// Запись в Redis перезаписывает предыдущую: у пользователя всегда не больше
// одного активного refresh токена.
func (s *TokenService) GenerateTokens(ctx context.Context, user *model.User, refreshTTL time.Duration, rememberMe bool) (*model.TokensPair, error) {
	accessToken, err := s.codec.GenerateAccessToken(user.UUID, user.Email, user.Role)
	if err != nil {
		return nil, util.LogError("ошибка генерации access токена", err)
	}

	refreshToken, err := s.codec.GenerateRefreshToken(user.UUID, refreshTTL)
	if err != nil {
		return nil, util.LogError("ошибка генерации refresh токена", err)
	}

	record := &model.RefreshTokenRecord{
		Token:      refreshToken,
		RememberMe: rememberMe,
	}
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.UUID, record, refreshTTL); err != nil {
		return nil, fmt.Errorf("%w: %w", security.ErrSaveRefreshToken, err)
	}

	return &model.TokensPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		RefreshTokenTTL: int64(refreshTTL.Seconds()),
	}, nil
}

// VerifyAccessToken проверяет access токен: наличие, blacklist, подпись и срок
func (s *TokenService) VerifyAccessToken(ctx context.Context, accessToken string) (*security.AccessClaims, error) {
	if accessToken == "" {
		return nil, security.ErrAccessTokenMissing
	}

	blacklisted, err := s.tokenRepo.IsAccessTokenBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, util.LogError("ошибка проверки blacklist", err)
	}
	if blacklisted {
		return nil, security.ErrAccessTokenBlacklisted
	}

	claims, err := s.codec.ParseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", security.ErrAccessTokenInvalid, err)
	}

	return claims, nil
}

// VerifyRefreshToken проверяет refresh токен и сверяет его с записью в Redis.
// Возвращает UUID пользователя и сохраненный признак rememberMe.
// TTL записи метод не трогает — решение о продлении принимает вызывающий.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, refreshToken string) (string, bool, error) {
	claims, err := s.codec.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", security.ErrRefreshTokenInvalid, err)
	}

	record, err := s.tokenRepo.GetRefreshToken(ctx, claims.UserUUID)
	if err != nil {
		return "", false, util.LogError("ошибка чтения записи refresh токена", err)
	}
	if record == nil {
		return "", false, security.ErrRefreshTokenNotFound
	}

	// токен вытеснен более новым логином
	if record.Token != refreshToken {
		return "", false, security.ErrRefreshTokenMismatch
	}

	return claims.UserUUID, record.RememberMe, nil
}

// RemainingTTL возвращает остаток жизни записи refresh токена.
// Ключи refreshToken:* обязаны нести TTL, поэтому отрицательный ответ
// Redis (нет ключа либо нет TTL) — нарушение политики.
func (s *TokenService) RemainingTTL(ctx context.Context, userUUID string) (time.Duration, error) {
	ttl, err := s.tokenRepo.RefreshTokenTTL(ctx, userUUID)
	if err != nil {
		return 0, util.LogError("ошибка чтения TTL refresh токена", err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("%w: у ключа refresh токена нет TTL", security.ErrRefreshTokenInvalid)
	}
	return ttl, nil
}

// InvalidateAccessToken заносит access токен в blacklist на остаток его жизни.
// Токен проходит полную проверку, а не голый decode: уже невалидный,
// истекший или отозванный токен — no-op, повторный вызов — тоже no-op.
// Сбой инфраструктуры при проверке возвращается вызывающему: отзыв
// не состоялся не из-за состояния токена.
func (s *TokenService) InvalidateAccessToken(ctx context.Context, accessToken string) error {
	claims, err := s.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		if security.ErrorCode(err) != "" {
			return nil
		}
		return err
	}

	expireAt, err := claims.GetExpirationTime()
	if err != nil || expireAt == nil {
		return nil
	}

	// exp — секунды эпохи по RFC 7519; арифметика только через time.Time
	remaining := time.Until(expireAt.Time)
	if remaining <= 0 {
		return nil
	}

	return s.tokenRepo.BlacklistAccessToken(ctx, accessToken, remaining)
}

// DeleteRefreshToken удаляет запись refresh токена и кэш публичного профиля.
// Профиль удаляется намеренно: после завершения сессии устаревший снимок
// отдаваться не должен.
func (s *TokenService) DeleteRefreshToken(ctx context.Context, userUUID string) error {
	if err := s.tokenRepo.DeleteRefreshToken(ctx, userUUID); err != nil {
		return err
	}
	return s.tokenRepo.DeletePublicProfile(ctx, userUUID)
}

func (s *TokenService) GenerateEmailVerificationToken(email string) (string, error) {
	token, err := s.codec.GenerateEmailToken(email)
	if err != nil {
		return "", util.LogError("ошибка генерации токена подтверждения почты", err)
	}
	return token, nil
}

func (s *TokenService) VerifyEmailVerificationToken(tokenStr string) (string, error) {
	claims, err := s.codec.ParseEmailToken(tokenStr)
	if err != nil {
		return "", fmt.Errorf("%w: %w", security.ErrEmailTokenInvalid, err)
	}
	return claims.Email, nil
}

package service

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"time"
	"unicode"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/ports"
	"note-auth-server/internal/security"
	"note-auth-server/internal/util"

	"github.com/google/uuid"
)

const defaultUserRole = "user"

// refreshPolicy : константы политики продления для одного значения rememberMe
type refreshPolicy struct {
	maxTTL         time.Duration
	renewThreshold time.Duration
}

type AuthenticationService struct {
	tokenService   ports.TokenService
	userRepository ports.UserRepository
	jwtConfig      *config.JWTConfig
}

func NewAuthenticationService(
	tokenService ports.TokenService,
	userRepository ports.UserRepository,
	jwtConfig *config.JWTConfig,
) *AuthenticationService {
	return &AuthenticationService{
		tokenService:   tokenService,
		userRepository: userRepository,
		jwtConfig:      jwtConfig,
	}
}

// Register создает пользователя и сразу выдает пару токенов
func (s *AuthenticationService) Register(ctx context.Context, email, password string, rememberMe bool) (*model.TokensPair, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("[AuthService] некорректный email: %w", err)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("[AuthService] %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		Role:         defaultUserRole,
		PasswordHash: hash,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	return s.issueTokens(ctx, created, rememberMe)
}

// Login проверяет учетные данные и выдает пару токенов.
// rememberMe выбирает длинную или обычную политику refresh токена.
func (s *AuthenticationService) Login(ctx context.Context, email, password string, rememberMe bool) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("неверный логин или пароль")
	}

	return s.issueTokens(ctx, user, rememberMe)
}

// RefreshTokens выполняет ротацию пары токенов по политике скользящего окна:
//  1. Проверяет refresh токен и получает {uuid, rememberMe}.
//  2. Читает остаток TTL записи refreshToken:<uuid>.
//  3. Выбирает порог продления и максимальный TTL по rememberMe.
//  4. Если остаток меньше порога — сессия продлевается до максимального TTL
//     (пользователь активен около истечения). Иначе новый refresh токен
//     получает ровно остаток: сессия не продлевается и не укорачивается.
//  5. Access токен выпускается свежим в любом случае.
func (s *AuthenticationService) RefreshTokens(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	userUUID, rememberMe, err := s.tokenService.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("не удалось провалидировать refresh токен: %w", err)
	}

	remaining, err := s.tokenService.RemainingTTL(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать TTL refresh токена: %w", err)
	}

	policy, err := s.policyFor(rememberMe)
	if err != nil {
		return nil, err
	}

	newTTL := remaining
	if remaining < policy.renewThreshold {
		newTTL = policy.maxTTL
	}

	user, err := s.userRepository.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user, newTTL, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	return tokens, nil
}

// Logout завершает сессию best-effort: отзывает access токен, удаляет запись
// refresh токена и кэш профиля. Ошибки класса refresh-токена игнорируются —
// пользователь завершает сессию независимо от состояния токенов, cookie
// очищает обработчик в любом случае.
func (s *AuthenticationService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.tokenService.InvalidateAccessToken(ctx, accessToken); err != nil {
		log.Printf("не удалось отозвать access токен: %v", err)
	}

	userUUID, _, err := s.tokenService.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		if !security.IsRefreshTokenError(err) {
			log.Printf("ошибка проверки refresh токена при logout: %v", err)
		}
		// запасной путь: uuid из access токена, если он еще валиден
		if claims, accessErr := s.tokenService.VerifyAccessToken(ctx, accessToken); accessErr == nil {
			userUUID = claims.UserUUID
		}
	}

	if userUUID == "" {
		return nil
	}

	if err := s.tokenService.DeleteRefreshToken(ctx, userUUID); err != nil {
		log.Printf("не удалось удалить refresh токен при logout: %v", err)
	}

	return nil
}

// RequestEmailVerification выпускает токен подтверждения для почты пользователя.
// Отправка письма — забота внешнего коллаборатора.
func (s *AuthenticationService) RequestEmailVerification(ctx context.Context, userUUID string) (string, error) {
	user, err := s.userRepository.FindByUUID(ctx, userUUID)
	if err != nil {
		return "", fmt.Errorf("пользователь не найден: %w", err)
	}

	token, err := s.tokenService.GenerateEmailVerificationToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("ошибка генерации токена подтверждения: %w", err)
	}

	return token, nil
}

// ConfirmEmail проверяет токен подтверждения и помечает почту подтвержденной
func (s *AuthenticationService) ConfirmEmail(ctx context.Context, tokenStr string) error {
	email, err := s.tokenService.VerifyEmailVerificationToken(tokenStr)
	if err != nil {
		return err
	}

	if err := s.userRepository.MarkEmailVerified(ctx, email); err != nil {
		return fmt.Errorf("не удалось подтвердить почту: %w", err)
	}

	return nil
}

func (s *AuthenticationService) issueTokens(ctx context.Context, user *model.User, rememberMe bool) (*model.TokensPair, error) {
	policy, err := s.policyFor(rememberMe)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user, policy.maxTTL, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	return tokens, nil
}

func (s *AuthenticationService) policyFor(rememberMe bool) (refreshPolicy, error) {
	ttlStr := s.jwtConfig.RefreshTokenTTL
	thresholdStr := s.jwtConfig.RefreshRenewThreshold
	if rememberMe {
		ttlStr = s.jwtConfig.RememberRefreshTTL
		thresholdStr = s.jwtConfig.RememberRenewThreshold
	}

	maxTTL, err := time.ParseDuration(ttlStr)
	if err != nil {
		return refreshPolicy{}, util.LogError("ошибка парсинга TTL refresh токена", err)
	}

	threshold, err := time.ParseDuration(thresholdStr)
	if err != nil {
		return refreshPolicy{}, util.LogError("ошибка парсинга порога продления", err)
	}

	return refreshPolicy{maxTTL: maxTTL, renewThreshold: threshold}, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount int

	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 {
		return fmt.Errorf("пароль должен содержать буквы в разных регистрах")
	}
	if digitCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"note-auth-server/internal/model"
	"note-auth-server/internal/security"
	"note-auth-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateTokens(ctx context.Context, user *model.User, refreshTTL time.Duration, rememberMe bool) (*model.TokensPair, error) {
	args := m.Called(ctx, user, refreshTTL, rememberMe)
	if tokens, ok := args.Get(0).(*model.TokensPair); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenService) VerifyAccessToken(ctx context.Context, accessToken string) (*security.AccessClaims, error) {
	args := m.Called(ctx, accessToken)
	if claims, ok := args.Get(0).(*security.AccessClaims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenService) VerifyRefreshToken(ctx context.Context, refreshToken string) (string, bool, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockTokenService) RemainingTTL(ctx context.Context, userUUID string) (time.Duration, error) {
	args := m.Called(ctx, userUUID)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockTokenService) InvalidateAccessToken(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockTokenService) DeleteRefreshToken(ctx context.Context, userUUID string) error {
	args := m.Called(ctx, userUUID)
	return args.Error(0)
}

func (m *MockTokenService) GenerateEmailVerificationToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) VerifyEmailVerificationToken(tokenStr string) (string, error) {
	args := m.Called(tokenStr)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) GenerateOAuthToken(ctx context.Context, userUUID string, provider model.Provider) (string, error) {
	args := m.Called(ctx, userUUID, provider)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) RevokeOAuthToken(ctx context.Context, provider model.Provider, providerAccessToken string) error {
	args := m.Called(ctx, provider, providerAccessToken)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if created, ok := args.Get(0).(*model.User); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if user, ok := args.Get(0).(*model.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*model.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockUserRepository) FindSocialAccount(ctx context.Context, userUUID string, provider model.Provider) (*model.SocialAccount, error) {
	args := m.Called(ctx, userUUID, provider)
	if account, ok := args.Get(0).(*model.SocialAccount); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderIdentity(ctx context.Context, provider model.Provider, providerUserID string) (*model.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if user, ok := args.Get(0).(*model.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CreateSocialAccount(ctx context.Context, account *model.SocialAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteSocialAccount(ctx context.Context, userUUID string, provider model.Provider) error {
	args := m.Called(ctx, userUUID, provider)
	return args.Error(0)
}

func newAuthenticationService() (*service.AuthenticationService, *MockTokenService, *MockUserRepository) {
	tokenService := new(MockTokenService)
	userRepository := new(MockUserRepository)
	return service.NewAuthenticationService(tokenService, userRepository, newJWTConfig()), tokenService, userRepository
}

func testTokensPair(ttl time.Duration) *model.TokensPair {
	return &model.TokensPair{
		AccessToken:     "access",
		RefreshToken:    "refresh",
		RefreshTokenTTL: int64(ttl.Seconds()),
	}
}

// 1. Регистрация: пользователь создается с ролью user и сразу получает токены
func TestRegister(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()
	ctx := context.Background()

	created := &model.User{UUID: "u1", Email: "user@example.com", Role: "user"}
	userRepository.On("CreateUser", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
		return user.UUID != "" && user.Email == "user@example.com" &&
			user.Role == "user" && user.PasswordHash != ""
	})).Return(created, nil)

	tokenService.On("GenerateTokens", mock.Anything, mock.Anything, 168*time.Hour, false).
		Return(testTokensPair(168*time.Hour), nil)

	tokens, err := authService.Register(ctx, "user@example.com", "Str0ngPassword", false)
	require.NoError(t, err)
	assert.Equal(t, "access", tokens.AccessToken)
}

func TestRegister_InvalidEmail(t *testing.T) {
	authService, _, userRepository := newAuthenticationService()

	_, err := authService.Register(context.Background(), "не-адрес", "Str0ngPassword", false)
	assert.Error(t, err)
	userRepository.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_WeakPassword(t *testing.T) {
	authService, _, userRepository := newAuthenticationService()
	ctx := context.Background()

	cases := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, password := range cases {
		_, err := authService.Register(ctx, "user@example.com", password, false)
		assert.Error(t, err, password)
	}
	userRepository.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

// 2. Вход: rememberMe выбирает длинную политику refresh токена
func TestLogin(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()
	ctx := context.Background()

	hash, err := security.HashPassword("Str0ngPassword")
	require.NoError(t, err)

	user := &model.User{UUID: "u1", Email: "user@example.com", Role: "user", PasswordHash: hash}
	userRepository.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)

	tokenService.On("GenerateTokens", mock.Anything, user, 720*time.Hour, true).
		Return(testTokensPair(720*time.Hour), nil)

	tokens, err := authService.Login(ctx, "user@example.com", "Str0ngPassword", true)
	require.NoError(t, err)
	assert.Equal(t, int64(2592000), tokens.RefreshTokenTTL)
}

func TestLogin_WrongPassword(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()
	ctx := context.Background()

	hash, err := security.HashPassword("Str0ngPassword")
	require.NoError(t, err)

	user := &model.User{UUID: "u1", Email: "user@example.com", PasswordHash: hash}
	userRepository.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)

	_, err = authService.Login(ctx, "user@example.com", "WrongPassword1", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "неверный логин или пароль")
	tokenService.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UserNotFound(t *testing.T) {
	authService, _, userRepository := newAuthenticationService()

	userRepository.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, errors.New("sql: no rows in result set"))

	_, err := authService.Login(context.Background(), "ghost@example.com", "Str0ngPassword", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "не найден")
}

// 3. Ротация около истечения: остаток 500 секунд меньше порога 3 часа,
// сессия продлевается до полного TTL политики
func TestRefreshTokens_RenewNearExpiry(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()
	ctx := context.Background()

	user := &model.User{UUID: "u1", Email: "user@example.com", Role: "user"}

	tokenService.On("VerifyRefreshToken", mock.Anything, "old-refresh").Return("u1", false, nil)
	tokenService.On("RemainingTTL", mock.Anything, "u1").Return(500*time.Second, nil)
	userRepository.On("FindByUUID", mock.Anything, "u1").Return(user, nil)
	tokenService.On("GenerateTokens", mock.Anything, user, 168*time.Hour, false).
		Return(testTokensPair(168*time.Hour), nil)

	tokens, err := authService.RefreshTokens(ctx, "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, int64(604800), tokens.RefreshTokenTTL)
	tokenService.AssertExpectations(t)
}

// 4. Ротация в середине окна: остаток больше порога, новый refresh токен
// получает ровно остаток — сессия не продлевается и не укорачивается
func TestRefreshTokens_ReuseRemaining(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()
	ctx := context.Background()

	user := &model.User{UUID: "u1", Email: "user@example.com", Role: "user"}
	remaining := 999999 * time.Second

	tokenService.On("VerifyRefreshToken", mock.Anything, "old-refresh").Return("u1", true, nil)
	tokenService.On("RemainingTTL", mock.Anything, "u1").Return(remaining, nil)
	userRepository.On("FindByUUID", mock.Anything, "u1").Return(user, nil)
	tokenService.On("GenerateTokens", mock.Anything, user, remaining, true).
		Return(testTokensPair(remaining), nil)

	tokens, err := authService.RefreshTokens(ctx, "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, int64(999999), tokens.RefreshTokenTTL)
	tokenService.AssertExpectations(t)
}

func TestRefreshTokens_InvalidToken(t *testing.T) {
	authService, tokenService, _ := newAuthenticationService()

	tokenService.On("VerifyRefreshToken", mock.Anything, "bad").
		Return("", false, security.ErrRefreshTokenMismatch)

	_, err := authService.RefreshTokens(context.Background(), "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, security.ErrRefreshTokenMismatch)
	tokenService.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 5. Logout best-effort: невалидный refresh токен не мешает завершению
// сессии, uuid берется из еще валидного access токена
func TestLogout_InvalidRefreshToken(t *testing.T) {
	authService, tokenService, _ := newAuthenticationService()
	ctx := context.Background()

	claims := &security.AccessClaims{UserUUID: "u1"}

	tokenService.On("InvalidateAccessToken", mock.Anything, "access").Return(nil)
	tokenService.On("VerifyRefreshToken", mock.Anything, "мусор").
		Return("", false, security.ErrRefreshTokenInvalid)
	tokenService.On("VerifyAccessToken", mock.Anything, "access").Return(claims, nil)
	tokenService.On("DeleteRefreshToken", mock.Anything, "u1").Return(nil)

	require.NoError(t, authService.Logout(ctx, "access", "мусор"))
	tokenService.AssertCalled(t, "DeleteRefreshToken", mock.Anything, "u1")
}

// 6. Logout с полностью протухшими токенами тоже не возвращает ошибку
func TestLogout_AllTokensInvalid(t *testing.T) {
	authService, tokenService, _ := newAuthenticationService()
	ctx := context.Background()

	tokenService.On("InvalidateAccessToken", mock.Anything, "мусор").Return(nil)
	tokenService.On("VerifyRefreshToken", mock.Anything, "мусор").
		Return("", false, security.ErrRefreshTokenNotFound)
	tokenService.On("VerifyAccessToken", mock.Anything, "мусор").
		Return(nil, security.ErrAccessTokenInvalid)

	require.NoError(t, authService.Logout(ctx, "мусор", "мусор"))
	tokenService.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}

func TestLogout_Success(t *testing.T) {
	authService, tokenService, _ := newAuthenticationService()
	ctx := context.Background()

	tokenService.On("InvalidateAccessToken", mock.Anything, "access").Return(nil)
	tokenService.On("VerifyRefreshToken", mock.Anything, "refresh").Return("u1", false, nil)
	tokenService.On("DeleteRefreshToken", mock.Anything, "u1").Return(nil)

	require.NoError(t, authService.Logout(ctx, "access", "refresh"))
	tokenService.AssertExpectations(t)
}

func TestRequestEmailVerification(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()
	ctx := context.Background()

	user := &model.User{UUID: "u1", Email: "user@example.com"}
	userRepository.On("FindByUUID", mock.Anything, "u1").Return(user, nil)
	tokenService.On("GenerateEmailVerificationToken", "user@example.com").Return("email-token", nil)

	token, err := authService.RequestEmailVerification(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "email-token", token)
}

func TestConfirmEmail(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()
	ctx := context.Background()

	tokenService.On("VerifyEmailVerificationToken", "email-token").Return("user@example.com", nil)
	userRepository.On("MarkEmailVerified", mock.Anything, "user@example.com").Return(nil)

	require.NoError(t, authService.ConfirmEmail(ctx, "email-token"))
	userRepository.AssertExpectations(t)
}

func TestConfirmEmail_InvalidToken(t *testing.T) {
	authService, tokenService, userRepository := newAuthenticationService()

	tokenService.On("VerifyEmailVerificationToken", "мусор").
		Return("", security.ErrEmailTokenInvalid)

	err := authService.ConfirmEmail(context.Background(), "мусор")
	assert.ErrorIs(t, err, security.ErrEmailTokenInvalid)
	userRepository.AssertNotCalled(t, "MarkEmailVerified", mock.Anything, mock.Anything)
}

package ports

import (
	"context"
	"time"

	"note-auth-server/internal/model"
	"note-auth-server/internal/security"
)

// TokenCodec : подпись и проверка токенов по классам (access / refresh / email)
type TokenCodec interface {
	GenerateAccessToken(userUUID, email, role string) (string, error)
	GenerateRefreshToken(userUUID string, ttl time.Duration) (string, error)
	GenerateEmailToken(email string) (string, error)
	ParseAccessToken(tokenStr string) (*security.AccessClaims, error)
	ParseRefreshToken(tokenStr string) (*security.RefreshClaims, error)
	ParseEmailToken(tokenStr string) (*security.EmailClaims, error)
	AccessTokenDuration() (time.Duration, error)
}

// TokenService : ядро жизненного цикла токенов — выпуск, проверка,
// отзыв, обмен токенов у OAuth-провайдеров
type TokenService interface {
	GenerateTokens(ctx context.Context, user *model.User, refreshTTL time.Duration, rememberMe bool) (*model.TokensPair, error)
	VerifyAccessToken(ctx context.Context, accessToken string) (*security.AccessClaims, error)
	VerifyRefreshToken(ctx context.Context, refreshToken string) (string, bool, error)
	RemainingTTL(ctx context.Context, userUUID string) (time.Duration, error)
	InvalidateAccessToken(ctx context.Context, accessToken string) error
	DeleteRefreshToken(ctx context.Context, userUUID string) error
	GenerateEmailVerificationToken(email string) (string, error)
	VerifyEmailVerificationToken(tokenStr string) (string, error)
	GenerateOAuthToken(ctx context.Context, userUUID string, provider model.Provider) (string, error)
	RevokeOAuthToken(ctx context.Context, provider model.Provider, providerAccessToken string) error
}

package ports

import (
	"context"
	"time"

	"note-auth-server/internal/model"
)

// TokenRepository : Redis слой.
// Пространства ключей refreshToken:* и blacklist:* принадлежат исключительно
// токен-сервису, другие компоненты в них не пишут.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userUUID string, record *model.RefreshTokenRecord, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userUUID string) (*model.RefreshTokenRecord, error)
	DeleteRefreshToken(ctx context.Context, userUUID string) error
	RefreshTokenTTL(ctx context.Context, userUUID string) (time.Duration, error)

	BlacklistAccessToken(ctx context.Context, accessToken string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, accessToken string) (bool, error)

	SetPublicProfile(ctx context.Context, profile *model.PublicProfile, ttl time.Duration) error
	GetPublicProfile(ctx context.Context, userUUID string) (*model.PublicProfile, error)
	DeletePublicProfile(ctx context.Context, userUUID string) error
}

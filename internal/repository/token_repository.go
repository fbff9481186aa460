package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/util"

	"github.com/redis/go-redis/v9"
)

// blacklistValue : значение blacklist-ключа по контракту хранилища
const blacklistValue = "true"

type TokenRepository struct {
	client *config.RedisClient
}

func NewTokenRepository(rdb *config.RedisClient) *TokenRepository {
	return &TokenRepository{rdb}
}

// SaveRefreshToken сохраняет запись refresh токена с TTL.
// Запись перезаписывается обычным SET: при двух одновременных логинах
// одного пользователя выживает последняя — политика одного активного
// refresh токена на пользователя.
func (r *TokenRepository) SaveRefreshToken(ctx context.Context, userUUID string, record *model.RefreshTokenRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return util.LogError("ошибка сериализации записи refresh токена", err)
	}

	cmd := r.client.Client.Set(ctx, r.refreshKey(userUUID), data, ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *TokenRepository) GetRefreshToken(ctx context.Context, userUUID string) (*model.RefreshTokenRecord, error) {
	val, err := r.client.Client.Get(ctx, r.refreshKey(userUUID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // записи нет
	} else if err != nil {
		return nil, util.LogError("ошибка получения refresh токена из Redis", err)
	}

	var record model.RefreshTokenRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, util.LogError("ошибка десериализации записи refresh токена", err)
	}
	return &record, nil
}

func (r *TokenRepository) DeleteRefreshToken(ctx context.Context, userUUID string) error {
	if err := r.client.Client.Del(ctx, r.refreshKey(userUUID)).Err(); err != nil {
		return util.LogError("ошибка удаления refresh токена из Redis", err)
	}
	return nil
}

// RefreshTokenTTL возвращает оставшийся TTL ключа refreshToken:<uuid>.
// Отрицательное значение (ключа нет или TTL не установлен) отдается
// вызывающему как есть, интерпретация — на его стороне.
func (r *TokenRepository) RefreshTokenTTL(ctx context.Context, userUUID string) (time.Duration, error) {
	ttl, err := r.client.Client.TTL(ctx, r.refreshKey(userUUID)).Result()
	if err != nil {
		return 0, util.LogError("ошибка чтения TTL из Redis", err)
	}
	return ttl, nil
}

// BlacklistAccessToken помечает access токен отозванным.
// TTL равен остатку жизни токена, так что запись исчезает ровно тогда,
// когда токен истек бы сам.
func (r *TokenRepository) BlacklistAccessToken(ctx context.Context, accessToken string, ttl time.Duration) error {
	if err := r.client.Client.Set(ctx, r.blacklistKey(accessToken), blacklistValue, ttl).Err(); err != nil {
		return util.LogError("ошибка записи в blacklist", err)
	}
	return nil
}

func (r *TokenRepository) IsAccessTokenBlacklisted(ctx context.Context, accessToken string) (bool, error) {
	_, err := r.client.Client.Get(ctx, r.blacklistKey(accessToken)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, util.LogError("ошибка проверки blacklist", err)
	}
	return true, nil
}

func (r *TokenRepository) SetPublicProfile(ctx context.Context, profile *model.PublicProfile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return util.LogError("ошибка сериализации профиля", err)
	}

	if err := r.client.Client.Set(ctx, r.profileKey(profile.UUID), data, ttl).Err(); err != nil {
		return util.LogError("ошибка сохранения профиля в Redis", err)
	}
	return nil
}

func (r *TokenRepository) GetPublicProfile(ctx context.Context, userUUID string) (*model.PublicProfile, error) {
	val, err := r.client.Client.Get(ctx, r.profileKey(userUUID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения профиля из Redis", err)
	}

	var profile model.PublicProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, util.LogError("ошибка десериализации профиля из кэша", err)
	}
	return &profile, nil
}

func (r *TokenRepository) DeletePublicProfile(ctx context.Context, userUUID string) error {
	if err := r.client.Client.Del(ctx, r.profileKey(userUUID)).Err(); err != nil {
		return util.LogError("ошибка удаления профиля из Redis", err)
	}
	return nil
}

func (r *TokenRepository) refreshKey(userUUID string) string {
	return fmt.Sprintf("refreshToken:%s", userUUID)
}

func (r *TokenRepository) blacklistKey(accessToken string) string {
	return fmt.Sprintf("blacklist:%s", accessToken)
}

func (r *TokenRepository) profileKey(userUUID string) string {
	return fmt.Sprintf("publicProfile:%s", userUUID)
}

package model

import (
	"fmt"
	"time"
)

// Provider : поддерживаемый OAuth-провайдер
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderKakao  Provider = "kakao"
	ProviderNaver  Provider = "naver"
)

// ParseProvider проверяет, что строка из URL является известным провайдером
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderKakao, ProviderNaver:
		return Provider(s), nil
	}
	return "", fmt.Errorf("неизвестный провайдер: %q", s)
}

type SocialAccount struct {
	UUID               string    `db:"uuid" json:"uuid"`
	UserUUID           string    `db:"user_uuid" json:"user_uuid"`
	Provider           Provider  `db:"provider" json:"provider"`
	ProviderUserID     string    `db:"provider_user_id" json:"provider_user_id"`
	SocialRefreshToken string    `db:"social_refresh_token" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SocialProfile : профиль, полученный от провайдера после согласия пользователя.
// Сам redirect/consent-флоу находится за границей этого сервиса.
type SocialProfile struct {
	ProviderUserID     string `json:"provider_user_id"`
	Email              string `json:"email"`
	SocialRefreshToken string `json:"social_refresh_token"`
}

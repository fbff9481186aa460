package security

import (
	"fmt"
	"time"

	"note-auth-server/config"
	"note-auth-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "note-auth-server"

// AccessClaims : payload access токена — {id, email, role} плюс стандартные claims
type AccessClaims struct {
	UserUUID string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims : refresh токен несет только id пользователя,
// признак rememberMe живет в записи Redis, а не в токене
type RefreshClaims struct {
	UserUUID string `json:"id"`
	jwt.RegisteredClaims
}

// EmailClaims : токен подтверждения почты, stateless
type EmailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет токены трех классов: access, refresh
// и email. Каждый класс использует свой секрет, алгоритм всегда HS256.
type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

func (service *JWTService) GenerateAccessToken(userUUID, email, role string) (string, error) {
	ttl, err := service.AccessTokenDuration()
	if err != nil {
		return "", err
	}

	claims := AccessClaims{
		UserUUID: userUUID,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	return service.sign(claims, service.AccessSecret)
}

func (service *JWTService) GenerateRefreshToken(userUUID string, ttl time.Duration) (string, error) {
	claims := RefreshClaims{
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	return service.sign(claims, service.RefreshSecret)
}

func (service *JWTService) GenerateEmailToken(email string) (string, error) {
	ttl, err := time.ParseDuration(service.EmailTokenTTL)
	if err != nil {
		return "", util.LogError("ошибка парсинга email_token_ttl", err)
	}

	claims := EmailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	return service.sign(claims, service.EmailSecret)
}

func (service *JWTService) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := service.verify(tokenStr, claims, service.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (service *JWTService) ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.verify(tokenStr, claims, service.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (service *JWTService) ParseEmailToken(tokenStr string) (*EmailClaims, error) {
	claims := &EmailClaims{}
	if err := service.verify(tokenStr, claims, service.EmailSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// AccessTokenDuration : срок жизни access токена из конфигурации
func (service *JWTService) AccessTokenDuration() (time.Duration, error) {
	ttl, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return 0, util.LogError("ошибка парсинга access_token_ttl", err)
	}
	return ttl, nil
}

func (service *JWTService) sign(claims jwt.Claims, secret string) (string, error) {
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := jwtToken.SignedString([]byte(secret))
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}
	return signed, nil
}

// verify проверяет подпись и срок жизни токена.
// Алгоритм жестко закреплен за HS256: токен с alg=none или асимметричной
// подписью отклоняется до проверки подписи.
func (service *JWTService) verify(tokenStr string, claims jwt.Claims, secret string) error {
	jwtToken, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !jwtToken.Valid {
		return fmt.Errorf("невалидный токен: %w", err)
	}

	return nil
}

// Decode разбирает токен без проверки подписи. Используется только для
// диагностики; решение об авторизации на основе Decode не принимается.
func Decode(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("не удалось разобрать токен: %w", err)
	}
	return claims, nil
}

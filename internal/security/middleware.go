package security

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserContextKey contextKey = "user"

	// AccessTokenCookie : имя cookie с access токеном
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie : имя cookie с refresh токеном
	RefreshTokenCookie = "refreshToken"
)

// AccessTokenVerifier реализуется токен-сервисом: проверка подписи,
// срока жизни и blacklist.
type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (*AccessClaims, error)
}

// JWTMiddleware закрывает маршрут: без валидного access токена запрос
// не проходит.
func JWTMiddleware(verifier AccessTokenVerifier, isProduction bool) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(verifier, isProduction, true, next))
	}
}

// OptionalJWTMiddleware пропускает запрос без токена как анонимный.
// Включается явно на конкретной группе маршрутов, никогда глобально.
func OptionalJWTMiddleware(verifier AccessTokenVerifier, isProduction bool) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(verifier, isProduction, false, next))
	}
}

func handleAuthentication(verifier AccessTokenVerifier, isProduction bool, required bool, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		token := ExtractAccessToken(request)
		if token == "" {
			if !required {
				// анонимный запрос: claims в контекст не кладутся
				next.ServeHTTP(writer, request)
				return
			}
			writeUnauthorized(writer, ErrAccessTokenMissing, isProduction)
			return
		}

		claims, err := verifier.VerifyAccessToken(request.Context(), token)
		if err != nil {
			// ошибка вне таксономии токенов — сбой инфраструктуры,
			// сессия клиента при этом может быть валидной
			if ErrorCode(err) == "" {
				log.Printf("ошибка проверки access токена: %v", err)
				writeServerError(writer)
				return
			}
			log.Printf("невалидный токен: %v", err)
			writeUnauthorized(writer, err, isProduction)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

// ExtractAccessToken достает access токен из cookie, затем из заголовка
// Authorization.
func ExtractAccessToken(request *http.Request) string {
	if cookie, err := request.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorizationHeader := request.Header.Get("Authorization")
	if strings.HasPrefix(authorizationHeader, "Bearer ") {
		return strings.TrimPrefix(authorizationHeader, "Bearer ")
	}

	return ""
}

func GetClaimsFromContext(ctx context.Context) (*AccessClaims, error) {
	claims, ok := ctx.Value(UserContextKey).(*AccessClaims)
	if !ok || claims == nil {
		return nil, errors.New("пользователь не авторизован")
	}
	return claims, nil
}

func writeServerError(writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusInternalServerError)

	json.NewEncoder(writer).Encode(struct {
		Error string `json:"error"`
	}{Error: "internal server error"})
}

func writeUnauthorized(writer http.ResponseWriter, err error, isProduction bool) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusUnauthorized)

	body := struct {
		Error string `json:"error"`
		Code  string `json:"code,omitempty"`
	}{Error: "unauthorized"}

	if !isProduction {
		body.Code = ErrorCode(err)
	}

	json.NewEncoder(writer).Encode(body)
}

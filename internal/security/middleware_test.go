package security_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"note-auth-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier подменяет токен-сервис в тестах middleware
type stubVerifier struct {
	claims *security.AccessClaims
	err    error
}

func (v *stubVerifier) VerifyAccessToken(ctx context.Context, accessToken string) (*security.AccessClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func protectedEcho(t *testing.T, sawClaims *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := security.GetClaimsFromContext(r.Context())
		if err == nil {
			*sawClaims = true
			assert.Equal(t, "u1", claims.UserUUID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func unauthorizedCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "unauthorized", body.Error)
	return body.Code
}

// 1. Без токена закрытый маршрут отвечает 401, вне production в теле
// присутствует машинный код ошибки
func TestJWTMiddleware_MissingToken(t *testing.T) {
	var sawClaims bool
	middleware := security.JWTMiddleware(&stubVerifier{}, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "ACCESS_TOKEN_MISSING", unauthorizedCode(t, recorder))
	assert.False(t, sawClaims)
}

// 2. В production машинный код наружу не выходит
func TestJWTMiddleware_MissingToken_Production(t *testing.T) {
	var sawClaims bool
	middleware := security.JWTMiddleware(&stubVerifier{}, true)
	handler := middleware(protectedEcho(t, &sawClaims))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, unauthorizedCode(t, recorder))
}

func TestJWTMiddleware_BlacklistedToken(t *testing.T) {
	var sawClaims bool
	middleware := security.JWTMiddleware(&stubVerifier{err: security.ErrAccessTokenBlacklisted}, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "revoked"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "ACCESS_TOKEN_BLACKLISTED", unauthorizedCode(t, recorder))
	assert.False(t, sawClaims)
}

// 3. Валидный токен из cookie кладет claims в контекст запроса
func TestJWTMiddleware_ValidCookie(t *testing.T) {
	var sawClaims bool
	verifier := &stubVerifier{claims: &security.AccessClaims{UserUUID: "u1"}}
	middleware := security.JWTMiddleware(verifier, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "token"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, sawClaims)
}

// 4. Заголовок Authorization — запасной источник токена после cookie
func TestJWTMiddleware_BearerHeader(t *testing.T) {
	var sawClaims bool
	verifier := &stubVerifier{claims: &security.AccessClaims{UserUUID: "u1"}}
	middleware := security.JWTMiddleware(verifier, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer token")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, sawClaims)
}

// 5. Опциональный режим пропускает запрос без токена как анонимный
func TestOptionalJWTMiddleware_Anonymous(t *testing.T) {
	var sawClaims bool
	middleware := security.OptionalJWTMiddleware(&stubVerifier{}, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, sawClaims)
}

// 6. Опциональный режим не прощает предъявленный невалидный токен
func TestOptionalJWTMiddleware_InvalidToken(t *testing.T) {
	var sawClaims bool
	middleware := security.OptionalJWTMiddleware(&stubVerifier{err: security.ErrAccessTokenInvalid}, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	request := httptest.NewRequest(http.MethodGet, "/profile", nil)
	request.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "мусор"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, sawClaims)
}

// 7. Сбой инфраструктуры при проверке токена — не 401: сессия клиента
// может быть валидной, ответ 500
func TestJWTMiddleware_VerifierFailure(t *testing.T) {
	var sawClaims bool
	verifier := &stubVerifier{err: errors.New("ошибка проверки blacklist: redis: connection refused")}
	middleware := security.JWTMiddleware(verifier, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "token"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.False(t, sawClaims)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "internal server error", body.Error)
}

// Опциональный режим не маскирует сбой инфраструктуры под анонимный доступ
func TestOptionalJWTMiddleware_VerifierFailure(t *testing.T) {
	var sawClaims bool
	verifier := &stubVerifier{err: errors.New("ошибка проверки blacklist: redis: connection refused")}
	middleware := security.OptionalJWTMiddleware(verifier, false)
	handler := middleware(protectedEcho(t, &sawClaims))

	request := httptest.NewRequest(http.MethodGet, "/profile", nil)
	request.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "token"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.False(t, sawClaims)
}

func TestExtractAccessToken_CookieBeforeHeader(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "из-cookie"})
	request.Header.Set("Authorization", "Bearer из-заголовка")

	assert.Equal(t, "из-cookie", security.ExtractAccessToken(request))
}

func TestGetClaimsFromContext_Empty(t *testing.T) {
	_, err := security.GetClaimsFromContext(context.Background())
	assert.Error(t, err)
}

package security

import "errors"

// Ошибки жизненного цикла токенов. Сервисы заворачивают их через %w,
// обработчики и guard сверяются через errors.Is.
var (
	ErrAccessTokenMissing     = errors.New("access токен не передан")
	ErrAccessTokenBlacklisted = errors.New("access токен отозван")
	ErrAccessTokenInvalid     = errors.New("невалидный access токен")
	ErrRefreshTokenInvalid    = errors.New("невалидный refresh токен")
	ErrRefreshTokenNotFound   = errors.New("refresh токен не найден в хранилище")
	ErrRefreshTokenMismatch   = errors.New("refresh токен не совпадает с сохранённым")
	ErrNoLinkedAccount        = errors.New("аккаунт провайдера не привязан к пользователю")
	ErrOAuthExchangeFailed    = errors.New("не удалось обменять токен у провайдера")
	ErrEmailTokenInvalid      = errors.New("невалидный токен подтверждения почты")
	ErrSaveRefreshToken       = errors.New("не удалось сохранить refresh токен")
)

// ErrorCode возвращает машинный код ошибки для клиента.
// Отдаётся только вне production, чтобы не раскрывать внутреннее состояние.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAccessTokenMissing):
		return "ACCESS_TOKEN_MISSING"
	case errors.Is(err, ErrAccessTokenBlacklisted):
		return "ACCESS_TOKEN_BLACKLISTED"
	case errors.Is(err, ErrAccessTokenInvalid):
		return "ACCESS_TOKEN_INVALID"
	case errors.Is(err, ErrRefreshTokenInvalid):
		return "REFRESH_TOKEN_INVALID"
	case errors.Is(err, ErrRefreshTokenNotFound):
		return "REFRESH_TOKEN_NOT_FOUND"
	case errors.Is(err, ErrRefreshTokenMismatch):
		return "REFRESH_TOKEN_MISMATCH"
	case errors.Is(err, ErrNoLinkedAccount):
		return "NO_LINKED_ACCOUNT"
	case errors.Is(err, ErrOAuthExchangeFailed):
		return "OAUTH_EXCHANGE_FAILED"
	case errors.Is(err, ErrEmailTokenInvalid):
		return "EMAIL_TOKEN_INVALID"
	case errors.Is(err, ErrSaveRefreshToken):
		return "SAVE_REFRESH_TOKEN_FAILED"
	}
	return ""
}

// IsRefreshTokenError сообщает, относится ли ошибка к классу refresh-токена.
// Logout и удаление аккаунта игнорируют такие ошибки: пользователь
// завершает сессию независимо от состояния токена.
func IsRefreshTokenError(err error) bool {
	return errors.Is(err, ErrRefreshTokenInvalid) ||
		errors.Is(err, ErrRefreshTokenNotFound) ||
		errors.Is(err, ErrRefreshTokenMismatch)
}

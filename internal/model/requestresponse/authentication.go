package requestresponse

// RegisterRequest : тело запроса на регистрацию
type RegisterRequest struct {
	Email      string `json:"email" example:"user@example.com"`
	Password   string `json:"password" example:"P@ssw0rd123"`
	RememberMe bool   `json:"rememberMe" example:"false"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email      string `json:"email" example:"user@example.com"`
	Password   string `json:"password" example:"P@ssw0rd123"`
	RememberMe bool   `json:"rememberMe" example:"true"`
}

// TokensResponse : ответ с новой парой токенов
type TokensResponse struct {
	Response struct {
		AccessToken     string `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
		RefreshToken    string `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
		RefreshTokenTTL int64  `json:"refreshTokenTtl" example:"604800"`
	} `json:"response"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
// (если refresh токен не пришел в cookie)
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Email    string `json:"email" example:"user@example.com"`
		Role     string `json:"role" example:"user"`
	} `json:"response"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		LoggedOut bool `json:"logged_out" example:"true"`
	} `json:"response"`
}

// EmailVerificationResponse : выданный токен подтверждения почты
type EmailVerificationResponse struct {
	Response struct {
		Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	} `json:"response"`
}

// ConfirmEmailRequest : запрос на подтверждение почты
type ConfirmEmailRequest struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// SocialLoginRequest : профиль, полученный от провайдера
type SocialLoginRequest struct {
	ProviderUserID     string `json:"provider_user_id" example:"108204098123745"`
	Email              string `json:"email" example:"user@example.com"`
	SocialRefreshToken string `json:"social_refresh_token" example:"1//0eXbG..."`
	RememberMe         bool   `json:"rememberMe" example:"false"`
}

// ErrorDetail : код и текст ошибки
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Text string `json:"text" example:"invalid request body"`
}

// ErrorResponse : ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

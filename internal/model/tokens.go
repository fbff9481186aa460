package model

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (для получения новой пары)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`

	// Срок жизни refresh токена в секундах
	// example: 604800
	RefreshTokenTTL int64 `json:"refreshTokenTtl"`
}

// RefreshTokenRecord : значение ключа refreshToken:<uuid> в Redis.
// На пользователя существует не больше одной записи, новый логин
// перезаписывает предыдущую.
type RefreshTokenRecord struct {
	Token      string `json:"token"`
	RememberMe bool   `json:"rememberMe"`
}

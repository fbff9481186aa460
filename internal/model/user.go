package model

import "time"

type User struct {
	UUID          string    `db:"uuid" json:"uuid"`
	Email         string    `db:"email" json:"email"`
	Role          string    `db:"role" json:"role"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	EmailVerified bool      `db:"email_verified" json:"email_verified"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// PublicProfile : публичный снимок пользователя.
// Кэшируется в Redis под ключом publicProfile:<uuid> и обязан удаляться
// при завершении сессии, чтобы не отдать устаревший снимок.
type PublicProfile struct {
	UUID      string    `json:"uuid"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

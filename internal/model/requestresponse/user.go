package requestresponse

import "time"

// PublicProfileResponse : публичный снимок пользователя
type PublicProfileResponse struct {
	Response struct {
		UUID      string    `json:"uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Email     string    `json:"email" example:"user@example.com"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"response"`
}

// DeleteAccountResponse : ответ на удаление аккаунта
type DeleteAccountResponse struct {
	Response struct {
		UserUUID string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Deleted  bool   `json:"deleted" example:"true"`
	} `json:"response"`
}

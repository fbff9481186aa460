package repository

import (
	"context"
	"database/sql"
	"errors"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/util"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, email, role, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING uuid, email, role, email_verified, created_at
	`

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query, user.UUID, user.Email, user.Role, user.PasswordHash).
		Scan(&createdUser.UUID, &createdUser.Email, &createdUser.Role, &createdUser.EmailVerified, &createdUser.CreatedAt)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	query := `SELECT uuid, email, role, password_hash, email_verified, created_at FROM users WHERE uuid = $1`
	var user model.User
	err := r.DB.GetContext(ctx, &user, query, uuid)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT uuid, email, role, password_hash, email_verified, created_at FROM users WHERE email = $1`
	var user model.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по email", err)
	}
	return &user, nil
}

// MarkEmailVerified : помечает почту подтвержденной
func (r *UserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	query := `UPDATE users SET email_verified = TRUE WHERE email = $1`

	result, err := r.DB.ExecContext(ctx, query, email)
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить пользователя", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить, обновлен ли пользователь", err)
	}
	if rowsAffected == 0 {
		return util.LogError("[UserRepo] пользователь с такой почтой не найден", sql.ErrNoRows)
	}

	return nil
}

// DeleteUser : удаляет пользователя по его UUID
func (r *UserRepository) DeleteUser(ctx context.Context, uuid string) error {
	query := `DELETE FROM users WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[UserRepo] не удалось удалить пользователя", err)
	}
	return nil
}

// FindSocialAccount : ищет привязанный аккаунт провайдера.
// Возвращает (nil, nil), если аккаунт не привязан.
func (r *UserRepository) FindSocialAccount(ctx context.Context, userUUID string, provider model.Provider) (*model.SocialAccount, error) {
	query := `
	SELECT uuid, user_uuid, provider, provider_user_id, social_refresh_token, created_at
	FROM social_accounts WHERE user_uuid = $1 AND provider = $2
	`

	var account model.SocialAccount
	err := r.DB.GetContext(ctx, &account, query, userUUID, provider)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка поиска привязанного аккаунта", err)
	}
	return &account, nil
}

// FindUserByProviderIdentity : ищет пользователя по идентичности провайдера.
// Возвращает (nil, nil), если пользователь еще не регистрировался через
// этого провайдера.
func (r *UserRepository) FindUserByProviderIdentity(ctx context.Context, provider model.Provider, providerUserID string) (*model.User, error) {
	query := `
	SELECT u.uuid, u.email, u.role, u.password_hash, u.email_verified, u.created_at
	FROM users u
	JOIN social_accounts sa ON sa.user_uuid = u.uuid
	WHERE sa.provider = $1 AND sa.provider_user_id = $2
	`

	var user model.User
	err := r.DB.GetContext(ctx, &user, query, provider, providerUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка поиска пользователя по провайдеру", err)
	}
	return &user, nil
}

// CreateSocialAccount : привязывает аккаунт провайдера к пользователю
func (r *UserRepository) CreateSocialAccount(ctx context.Context, account *model.SocialAccount) error {
	query := `
	INSERT INTO social_accounts (uuid, user_uuid, provider, provider_user_id, social_refresh_token)
	VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.DB.ExecContext(ctx, query,
		account.UUID,
		account.UserUUID,
		account.Provider,
		account.ProviderUserID,
		account.SocialRefreshToken,
	)

	if err != nil {
		return util.LogError("[UserRepo] ошибка вставки привязанного аккаунта", err)
	}

	return nil
}

// DeleteSocialAccount : отвязывает аккаунт провайдера
func (r *UserRepository) DeleteSocialAccount(ctx context.Context, userUUID string, provider model.Provider) error {
	query := `DELETE FROM social_accounts WHERE user_uuid = $1 AND provider = $2`

	result, err := r.DB.ExecContext(ctx, query, userUUID, provider)
	if err != nil {
		return util.LogError("[UserRepo] не удалось отвязать аккаунт", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить, отвязан ли аккаунт", err)
	}
	if rowsAffected == 0 {
		return util.LogError("[UserRepo] привязанный аккаунт не найден", sql.ErrNoRows)
	}

	return nil
}

package ports

import (
	"context"

	"note-auth-server/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	MarkEmailVerified(ctx context.Context, email string) error
	DeleteUser(ctx context.Context, uuid string) error

	FindSocialAccount(ctx context.Context, userUUID string, provider model.Provider) (*model.SocialAccount, error)
	FindUserByProviderIdentity(ctx context.Context, provider model.Provider, providerUserID string) (*model.User, error)
	CreateSocialAccount(ctx context.Context, account *model.SocialAccount) error
	DeleteSocialAccount(ctx context.Context, userUUID string, provider model.Provider) error
}

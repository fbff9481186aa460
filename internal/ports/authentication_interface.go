package ports

import (
	"context"

	"note-auth-server/internal/model"
)

type AuthenticationService interface {
	Register(ctx context.Context, email, password string, rememberMe bool) (*model.TokensPair, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (*model.TokensPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RequestEmailVerification(ctx context.Context, userUUID string) (string, error)
	ConfirmEmail(ctx context.Context, tokenStr string) error
}

type SocialService interface {
	LoginWithProvider(ctx context.Context, provider model.Provider, profile *model.SocialProfile, rememberMe bool) (*model.TokensPair, error)
	UnlinkProvider(ctx context.Context, userUUID string, provider model.Provider) error
}

type UserService interface {
	GetPublicProfile(ctx context.Context, userUUID string) (*model.PublicProfile, error)
	DeleteAccount(ctx context.Context, userUUID, accessToken string) error
}

package config

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig хранит секреты и сроки жизни по классам токенов.
// У каждого класса (access / refresh / email) свой секрет.
type JWTConfig struct {
	AccessSecret   string `yaml:"access_secret"`
	AccessTokenTTL string `yaml:"access_token_ttl"`

	RefreshSecret          string `yaml:"refresh_secret"`
	RefreshTokenTTL        string `yaml:"refresh_token_ttl"`
	RememberRefreshTTL     string `yaml:"remember_refresh_token_ttl"`
	RefreshRenewThreshold  string `yaml:"refresh_renew_threshold"`
	RememberRenewThreshold string `yaml:"remember_refresh_renew_threshold"`

	EmailSecret   string `yaml:"email_secret"`
	EmailTokenTTL string `yaml:"email_token_ttl"`
}

// OAuthProviderConfig : учетные данные конкретного провайдера.
// TokenURL и RevokeURL обычно пустые — используются адреса по умолчанию.
type OAuthProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
	RevokeURL    string `yaml:"revoke_url"`
}

type OAuthConfig struct {
	Google  OAuthProviderConfig `yaml:"google"`
	Kakao   OAuthProviderConfig `yaml:"kakao"`
	Naver   OAuthProviderConfig `yaml:"naver"`
	Timeout string              `yaml:"timeout"`
}

type TTL struct {
	// срок жизни кэша публичного профиля, в секундах
	PublicProfile int64 `yaml:"publicProfile"`
}

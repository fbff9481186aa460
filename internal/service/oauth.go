package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/security"
	"note-auth-server/internal/util"
)

// providerEndpoints : адреса и способ кодирования параметров провайдера.
// Google принимает JSON-тело, Kakao и Naver — параметры в query string.
// Добавление провайдера — строка в таблице, а не новая ветка в коде.
type providerEndpoints struct {
	tokenURL  string
	revokeURL string
	jsonBody  bool
}

var defaultEndpoints = map[model.Provider]providerEndpoints{
	model.ProviderGoogle: {
		tokenURL:  "https://oauth2.googleapis.com/token",
		revokeURL: "https://oauth2.googleapis.com/revoke",
		jsonBody:  true,
	},
	model.ProviderKakao: {
		tokenURL:  "https://kauth.kakao.com/oauth/token",
		revokeURL: "https://kapi.kakao.com/v1/user/unlink",
	},
	model.ProviderNaver: {
		tokenURL:  "https://nid.naver.com/oauth2.0/token",
		revokeURL: "https://nid.naver.com/oauth2.0/token",
	},
}

// GenerateOAuthToken обменивает сохраненный refresh токен провайдера на
// свежий access токен. Токен используется один раз для вызова unlink и
// нигде не сохраняется.
func (s *TokenService) GenerateOAuthToken(ctx context.Context, userUUID string, provider model.Provider) (string, error) {
	account, err := s.userRepo.FindSocialAccount(ctx, userUUID, provider)
	if err != nil {
		return "", util.LogError("ошибка поиска привязанного аккаунта", err)
	}
	if account == nil {
		return "", security.ErrNoLinkedAccount
	}

	endpoints, creds, err := s.providerLookup(provider)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("grant_type", "refresh_token")
	params.Set("client_id", creds.ClientID)
	params.Set("client_secret", creds.ClientSecret)
	params.Set("refresh_token", account.SocialRefreshToken)

	var request *http.Request
	if endpoints.jsonBody {
		body, err := json.Marshal(map[string]string{
			"grant_type":    "refresh_token",
			"client_id":     creds.ClientID,
			"client_secret": creds.ClientSecret,
			"refresh_token": account.SocialRefreshToken,
		})
		if err != nil {
			return "", util.LogError("ошибка сериализации запроса к провайдеру", err)
		}
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoints.tokenURL, bytes.NewReader(body))
		if err != nil {
			return "", util.LogError("ошибка создания запроса к провайдеру", err)
		}
		request.Header.Set("Content-Type", "application/json")
	} else {
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoints.tokenURL+"?"+params.Encode(), nil)
		if err != nil {
			return "", util.LogError("ошибка создания запроса к провайдеру", err)
		}
	}

	response, err := s.httpClient.Do(request)
	if err != nil {
		// таймаут и сетевые сбои классифицируются одинаково
		return "", fmt.Errorf("%w: %w", security.ErrOAuthExchangeFailed, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := io.ReadAll(response.Body)
		return "", fmt.Errorf("%w: провайдер %s ответил %d: %s",
			security.ErrOAuthExchangeFailed, provider, response.StatusCode, string(body))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(response.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("%w: не удалось разобрать ответ провайдера: %w", security.ErrOAuthExchangeFailed, err)
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("%w: провайдер не вернул access_token", security.ErrOAuthExchangeFailed)
	}

	return tokenResponse.AccessToken, nil
}

// RevokeOAuthToken вызывает revoke/unlink-endpoint провайдера
func (s *TokenService) RevokeOAuthToken(ctx context.Context, provider model.Provider, providerAccessToken string) error {
	endpoints, creds, err := s.providerLookup(provider)
	if err != nil {
		return err
	}

	var request *http.Request
	switch provider {
	case model.ProviderGoogle:
		params := url.Values{}
		params.Set("token", providerAccessToken)
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoints.revokeURL+"?"+params.Encode(), nil)
	case model.ProviderKakao:
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoints.revokeURL, nil)
		if err == nil {
			request.Header.Set("Authorization", "Bearer "+providerAccessToken)
		}
	case model.ProviderNaver:
		params := url.Values{}
		params.Set("grant_type", "delete")
		params.Set("client_id", creds.ClientID)
		params.Set("client_secret", creds.ClientSecret)
		params.Set("access_token", providerAccessToken)
		params.Set("service_provider", "NAVER")
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoints.revokeURL+"?"+params.Encode(), nil)
	default:
		return fmt.Errorf("неизвестный провайдер: %q", provider)
	}
	if err != nil {
		return util.LogError("ошибка создания запроса к провайдеру", err)
	}

	response, err := s.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %w", security.ErrOAuthExchangeFailed, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: провайдер %s ответил %d на revoke",
			security.ErrOAuthExchangeFailed, provider, response.StatusCode)
	}

	return nil
}

func (s *TokenService) providerLookup(provider model.Provider) (providerEndpoints, config.OAuthProviderConfig, error) {
	endpoints, ok := defaultEndpoints[provider]
	if !ok {
		return providerEndpoints{}, config.OAuthProviderConfig{}, fmt.Errorf("неизвестный провайдер: %q", provider)
	}

	var creds config.OAuthProviderConfig
	if s.oauthCfg != nil {
		switch provider {
		case model.ProviderGoogle:
			creds = s.oauthCfg.Google
		case model.ProviderKakao:
			creds = s.oauthCfg.Kakao
		case model.ProviderNaver:
			creds = s.oauthCfg.Naver
		}
	}

	// адреса из конфигурации перекрывают значения по умолчанию
	if creds.TokenURL != "" {
		endpoints.tokenURL = creds.TokenURL
	}
	if creds.RevokeURL != "" {
		endpoints.revokeURL = creds.RevokeURL
	}

	return endpoints, creds, nil
}

package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/model/requestresponse"
	"note-auth-server/internal/ports"
	"note-auth-server/internal/security"

	"github.com/go-chi/chi/v5"
)

type SocialHandler struct {
	socialService ports.SocialService
	tokenCodec    ports.TokenCodec
	cfg           *config.AppConfig
}

func NewSocialHandler(
	socialService ports.SocialService,
	tokenCodec ports.TokenCodec,
	cfg *config.AppConfig,
) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
		tokenCodec:    tokenCodec,
		cfg:           cfg,
	}
}

// SocialLogin godoc
// @Summary Вход через OAuth-провайдера
// @Description Принимает профиль, полученный после consent-флоу провайдера, находит или создает пользователя и выдает пару токенов
// @Tags Social
// @Accept json
// @Produce json
// @Param provider path string true "google | kakao | naver"
// @Param body body requestresponse.SocialLoginRequest true "Профиль провайдера"
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/social/{provider} [post]
func (h *SocialHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	provider, err := model.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		sendErrorResponse(w, 400, "неизвестный провайдер")
		return
	}

	var req requestresponse.SocialLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.ProviderUserID == "" {
		sendErrorResponse(w, 400, "provider_user_id обязателен")
		return
	}

	profile := &model.SocialProfile{
		ProviderUserID:     req.ProviderUserID,
		Email:              req.Email,
		SocialRefreshToken: req.SocialRefreshToken,
	}

	tokens, err := h.socialService.LoginWithProvider(r.Context(), provider, profile, req.RememberMe)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	accessTTL, err := h.tokenCodec.AccessTokenDuration()
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	setTokenCookies(w, tokens, accessTTL)

	resp := requestresponse.TokensResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	resp.Response.RefreshToken = tokens.RefreshToken
	resp.Response.RefreshTokenTTL = tokens.RefreshTokenTTL

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// Unlink godoc
// @Summary Отвязка аккаунта провайдера
// @Description Обменивает сохраненный refresh токен провайдера, вызывает unlink-endpoint и удаляет привязку
// @Tags Social
// @Produce json
// @Param provider path string true "google | kakao | naver"
// @Success 200
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 502 {object} requestresponse.ErrorResponse
// @Router /api/auth/social/{provider} [delete]
// @Security ApiKeyAuth
func (h *SocialHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	provider, err := model.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		sendErrorResponse(w, 400, "неизвестный провайдер")
		return
	}

	if err := h.socialService.UnlinkProvider(r.Context(), claims.UserUUID, provider); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, security.ErrNoLinkedAccount):
			h.sendAuthError(w, err, "аккаунт провайдера не привязан")
		case errors.Is(err, security.ErrOAuthExchangeFailed):
			// повтор — решение клиента, автоматических ретраев нет
			sendErrorResponse(w, http.StatusBadGateway, "провайдер недоступен")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *SocialHandler) sendAuthError(w http.ResponseWriter, err error, message string) {
	if !h.cfg.IsProduction() {
		if code := security.ErrorCode(err); code != "" {
			message = message + " (" + code + ")"
		}
	}
	sendErrorResponse(w, http.StatusUnauthorized, message)
}

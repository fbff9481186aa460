package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"note-auth-server/config"
	"note-auth-server/internal/model"
	"note-auth-server/internal/model/requestresponse"
	"note-auth-server/internal/ports"
	"note-auth-server/internal/security"
)

type AuthenticationHandler struct {
	authenticationService ports.AuthenticationService
	tokenCodec            ports.TokenCodec
	cfg                   *config.AppConfig
}

func NewAuthenticationHandler(
	authenticationService ports.AuthenticationService,
	tokenCodec ports.TokenCodec,
	cfg *config.AppConfig,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService: authenticationService,
		tokenCodec:            tokenCodec,
		cfg:                   cfg,
	}
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Description Создает пользователя по email и паролю, сразу выдает пару токенов
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	tokens, err := h.authenticationService.Register(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "некорректный email"),
			strings.Contains(err.Error(), "пароль"):
			sendErrorResponse(w, 400, "bad request")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	h.writeTokens(w, tokens)
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Выдает пару токенов по email и паролю, rememberMe выбирает длинную политику сессии
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	tokens, err := h.authenticationService.Login(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найден"):
			sendErrorResponse(w, 404, "пользователь не найден")
		case strings.Contains(err.Error(), "неверный логин или пароль"):
			sendErrorResponse(w, 401, "неверный логин или пароль")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	h.writeTokens(w, tokens)
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Description Ротация по политике скользящего окна: около истечения сессия продлевается, иначе новый refresh токен получает ровно остаток
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest false "Refresh токен, если не передан в cookie"
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	refreshToken := cookieValue(r, security.RefreshTokenCookie)
	if refreshToken == "" {
		var req requestresponse.RefreshTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		h.sendAuthError(w, security.ErrRefreshTokenInvalid, "refresh токен не передан")
		return
	}

	tokens, err := h.authenticationService.RefreshTokens(r.Context(), refreshToken)
	if err != nil {
		log.Println(err)
		switch {
		case security.IsRefreshTokenError(err), errors.Is(err, security.ErrRefreshTokenInvalid):
			// невалидный или вытесненный токен — принудительный re-login
			h.sendAuthError(w, err, "не удалось обновить токены")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	h.writeTokens(w, tokens)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Отзывает access токен, удаляет запись refresh токена. Cookie очищаются всегда, даже если токены уже невалидны
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.LogoutResponse
// @Router /api/auth [delete]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	accessToken := security.ExtractAccessToken(r)
	refreshToken := cookieValue(r, security.RefreshTokenCookie)

	// cookie очищаются до отзыва: завершение сессии не зависит от его исхода
	clearTokenCookies(w)

	if err := h.authenticationService.Logout(r.Context(), accessToken, refreshToken); err != nil {
		log.Printf("ошибка отзыва токенов при logout: %v", err)
	}

	resp := requestresponse.LogoutResponse{}
	resp.Response.LoggedOut = true

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUser godoc
// @Summary Текущий пользователь
// @Description Возвращает идентичность из проверенного access токена
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
// @Security ApiKeyAuth
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = claims.UserUUID
	resp.Response.Email = claims.Email
	resp.Response.Role = claims.Role

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUserHead godoc
// @Summary Текущий пользователь
// @Tags Authentication
// @Success 200
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [head]
// @Security ApiKeyAuth
func (h *AuthenticationHandler) GetCurrentUserHead(w http.ResponseWriter, r *http.Request) {
	h.GetCurrentUser(w, r)
}

// RequestEmailVerification godoc
// @Summary Выпуск токена подтверждения почты
// @Description Выдает stateless токен подтверждения (10 минут). Отправка письма — внешний коллаборатор
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.EmailVerificationResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/verify-email [post]
// @Security ApiKeyAuth
func (h *AuthenticationHandler) RequestEmailVerification(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	token, err := h.authenticationService.RequestEmailVerification(r.Context(), claims.UserUUID)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	resp := requestresponse.EmailVerificationResponse{}
	resp.Response.Token = token

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// ConfirmEmail godoc
// @Summary Подтверждение почты
// @Description Проверяет токен подтверждения и помечает почту подтвержденной
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.ConfirmEmailRequest true "Тело запроса"
// @Success 200
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/verify-email [put]
func (h *AuthenticationHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.ConfirmEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Token == "" {
		sendErrorResponse(w, 400, "токен не указан")
		return
	}

	if err := h.authenticationService.ConfirmEmail(r.Context(), req.Token); err != nil {
		log.Println(err)
		if errors.Is(err, security.ErrEmailTokenInvalid) {
			h.sendAuthError(w, err, "невалидный токен подтверждения")
			return
		}
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// writeTokens выставляет cookie и отдает пару токенов в теле ответа
func (h *AuthenticationHandler) writeTokens(w http.ResponseWriter, tokens *model.TokensPair) {
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

// sendAuthError : 401 с машинным кодом ошибки вне production
func (h *AuthenticationHandler) sendAuthError(w http.ResponseWriter, err error, message string) {
	if !h.cfg.IsProduction() {
		if code := security.ErrorCode(err); code != "" {
			message = message + " (" + code + ")"
		}
	}
	sendErrorResponse(w, http.StatusUnauthorized, message)
}

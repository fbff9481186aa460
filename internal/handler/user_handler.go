package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"note-auth-server/internal/model/requestresponse"
	"note-auth-server/internal/ports"
	"note-auth-server/internal/security"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// GetPublicProfile godoc
// @Summary Публичный профиль пользователя
// @Description Читает профиль через кэш publicProfile:<uuid>. Авторизация не обязательна
// @Tags Users
// @Produce json
// @Param uuid path string true "UUID пользователя"
// @Success 200 {object} requestresponse.PublicProfileResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid}/profile [get]
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userUUID := chi.URLParam(r, "uuid")
	if userUUID == "" {
		sendErrorResponse(w, 400, "uuid не указан")
		return
	}

	profile, err := h.userService.GetPublicProfile(r.Context(), userUUID)
	if err != nil {
		log.Println(err)
		if strings.Contains(err.Error(), "не найден") {
			sendErrorResponse(w, 404, "пользователь не найден")
		} else {
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.PublicProfileResponse{}
	resp.Response.UUID = profile.UUID
	resp.Response.Email = profile.Email
	resp.Response.CreatedAt = profile.CreatedAt

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// DeleteAccount godoc
// @Summary Удаление аккаунта
// @Description Отзывает токены best-effort и удаляет пользователя. Cookie очищаются всегда
// @Tags Users
// @Produce json
// @Param uuid path string true "UUID пользователя"
// @Success 200 {object} requestresponse.DeleteAccountResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/users/{uuid} [delete]
// @Security ApiKeyAuth
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	userUUID := chi.URLParam(r, "uuid")
	if claims.Role != "admin" && claims.UserUUID != userUUID {
		sendErrorResponse(w, http.StatusForbidden, "доступ запрещён")
		return
	}

	accessToken := security.ExtractAccessToken(r)

	// cookie очищаются до удаления: аккаунт уходит вместе с сессией
	clearTokenCookies(w)

	if err := h.userService.DeleteAccount(r.Context(), userUUID, accessToken); err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	resp := requestresponse.DeleteAccountResponse{}
	resp.Response.UserUUID = userUUID
	resp.Response.Deleted = true

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// decodeJSON обрабатывает декодирование JSON и возвращает ответ об ошибке,
// если декодирование не удалось.
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(400)
		json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
			Error: requestresponse.ErrorDetail{
				Code: 400,
				Text: "invalid request body",
			},
		})
		return err
	}
	return nil
}

// sendErrorResponse отправляет ответ об ошибке JSON с указанным кодом статуса и сообщением
func sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
		Error: requestresponse.ErrorDetail{
			Code: statusCode,
			Text: message,
		},
	})
}

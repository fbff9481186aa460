package handler

import (
	"net/http"
	"time"

	"note-auth-server/internal/model"
	"note-auth-server/internal/security"
)

// newTokenCookie : httpOnly + secure + sameSite=lax для обоих токенов
func newTokenCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredTokenCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// setTokenCookies выставляет обе cookie: maxAge access-cookie равен сроку
// жизни access токена, refresh-cookie — RefreshTokenTTL пары
func setTokenCookies(w http.ResponseWriter, tokens *model.TokensPair, accessTTL time.Duration) {
	http.SetCookie(w, newTokenCookie(security.AccessTokenCookie, tokens.AccessToken, accessTTL))
	http.SetCookie(w, newTokenCookie(security.RefreshTokenCookie, tokens.RefreshToken, time.Duration(tokens.RefreshTokenTTL)*time.Second))
}

// clearTokenCookies очищает обе cookie безусловно — независимо от того,
// удалось ли отозвать токены на сервере
func clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, expiredTokenCookie(security.AccessTokenCookie))
	http.SetCookie(w, expiredTokenCookie(security.RefreshTokenCookie))
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

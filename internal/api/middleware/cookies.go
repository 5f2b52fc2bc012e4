package middleware

import (
	"net/http"
	"time"

	"github.com/dom/postgram/internal/config"
	"github.com/dom/postgram/internal/service"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SetSessionCookies writes both tokens as http-only, same-site strict
// cookies that expire with the tokens they carry.
func SetSessionCookies(w http.ResponseWriter, cfg *config.Config, pair *service.TokenPair) {
	http.SetCookie(w, sessionCookie(cfg, AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, sessionCookie(cfg, RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

func ClearSessionCookies(w http.ResponseWriter, cfg *config.Config) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := sessionCookie(cfg, name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func sessionCookie(cfg *config.Config, name, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
	if maxAge := int(time.Until(expires).Seconds()); maxAge > 0 {
		c.MaxAge = maxAge
	}
	return c
}

package handler

import (
	"net/http"
	"time"
)

// RefreshCookieName is the cookie under which the refresh secret travels.
const RefreshCookieName = "refresh_token"

// CookieManager delivers and clears the refresh-token cookie. The cookie is
// always httpOnly; outside local development it is also Secure, and in
// production SameSite is tightened from Lax to Strict.
type CookieManager struct {
	environment string
}

func NewCookieManager(environment string) *CookieManager {
	return &CookieManager{environment: environment}
}

// Set writes the refresh secret as a session cookie with the refresh token's
// remaining lifetime as max age.
func (m *CookieManager) Set(w http.ResponseWriter, secret string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    secret,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.environment != "development",
		SameSite: m.sameSite(),
	})
}

// Clear expires the refresh cookie on the client.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.environment != "development",
		SameSite: m.sameSite(),
	})
}

func (m *CookieManager) sameSite() http.SameSite {
	if m.environment == "production" {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

package handler

import (
	"encoding/json"
	"go-admin-auth/common"
	"go-admin-auth/logger"
	"go-admin-auth/model"
	"go-admin-auth/repository"
	"go-admin-auth/service"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ICredentialValidator checks a username/password pair.
type ICredentialValidator interface {
	Validate(username, password string) (*service.ValidationResult, error)
}

// ITokenIssuer produces new token pairs.
type ITokenIssuer interface {
	Issue(username string, userID int, fp model.DeviceFingerprint) (*model.TokenPair, []model.Event, error)
}

// IRefreshCoordinator rotates a presented refresh secret.
type IRefreshCoordinator interface {
	Refresh(presentedSecret string, fp model.DeviceFingerprint) (*model.TokenPair, []model.Event, error)
}

type AuthHandler struct {
	credentials ICredentialValidator
	issuer      ITokenIssuer
	refresher   IRefreshCoordinator
	tokenRepo   repository.ITokenRepository
	guard       *service.BruteForceGuard
	cookies     *CookieManager
	events      service.IEventPublisher
}

func NewAuthHandler(
	credentials ICredentialValidator,
	issuer ITokenIssuer,
	refresher IRefreshCoordinator,
	tokenRepo repository.ITokenRepository,
	guard *service.BruteForceGuard,
	cookies *CookieManager,
	events service.IEventPublisher,
) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		issuer:      issuer,
		refresher:   refresher,
		tokenRepo:   tokenRepo,
		guard:       guard,
		cookies:     cookies,
		events:      events,
	}
}

// Login handles session creation: brute-force check, credential validation,
// token issuance, refresh cookie delivery.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	ip := clientIP(r)
	log := logger.Log.WithFields(logrus.Fields{
		"username": req.Username,
		"ip":       ip,
	})
	log.Info("Login request received")

	h.events.Publish(model.NewEvent(model.EventLoginAttempt, map[string]interface{}{
		"username": req.Username,
		"ip":       ip,
	}))

	if h.guard.IsBlocked(ip) {
		h.events.Publish(model.NewEvent(model.EventLoginRateLimited, map[string]interface{}{
			"username": req.Username,
			"ip":       ip,
		}))
		return common.NewAppError(http.StatusTooManyRequests,
			"Too many failed attempts. Please try again later.", nil)
	}

	result, err := h.credentials.Validate(req.Username, req.Password)
	if err != nil {
		return h.mapServiceError(err)
	}
	if !result.Valid {
		h.guard.RecordFailure(ip)
		h.events.Publish(model.NewEvent(model.EventLoginFailure, map[string]interface{}{
			"username": req.Username,
			"ip":       ip,
			"reason":   result.Reason,
		}))
		// One message for every failure variant, so usernames cannot be
		// enumerated through the login endpoint.
		return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", nil)
	}

	pair, events, err := h.issuer.Issue(result.Username, result.UserID, req.DeviceFingerprint)
	h.events.Publish(events...)
	if err != nil {
		return h.mapServiceError(err)
	}

	h.events.Publish(model.NewEvent(model.EventLoginSuccess, map[string]interface{}{
		"user_id": result.UserID,
		"ip":      ip,
	}))

	h.cookies.Set(w, pair.RefreshSecret, time.Until(pair.RefreshExpiresAt))
	return writeSession(w, pair, &model.SessionUser{
		Username: result.Username,
		UUID:     result.UserUUID,
	})
}

// Refresh rotates the refresh token carried in the session cookie and
// returns a fresh access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return common.NewAppError(http.StatusUnauthorized, "Invalid or expired session", nil)
	}

	pair, events, err := h.refresher.Refresh(cookie.Value, req.DeviceFingerprint)
	h.events.Publish(events...)
	if err != nil {
		return h.mapServiceError(err)
	}

	h.cookies.Set(w, pair.RefreshSecret, time.Until(pair.RefreshExpiresAt))
	return writeSession(w, pair, nil)
}

// Logout revokes the current refresh token and clears the cookie. It is
// idempotent: an unknown or already-revoked token still clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if cookie, err := r.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
		if err := h.tokenRepo.RevokeByHash(service.HashSecret(cookie.Value)); err != nil {
			return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
		}
		h.events.Publish(model.NewEvent(model.EventLogout, nil))
	}

	h.cookies.Clear(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
	return nil
}

// mapServiceError translates the domain error taxonomy into the externally
// visible responses. Internal reasons stay in telemetry.
func (h *AuthHandler) mapServiceError(err error) *common.AppError {
	switch service.KindOf(err) {
	case service.KindValidation:
		return common.NewAppError(http.StatusBadRequest, "Invalid request", err)
	case service.KindAuthentication:
		return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", err)
	case service.KindRateLimit:
		return common.NewAppError(http.StatusTooManyRequests,
			"Too many failed attempts. Please try again later.", err)
	case service.KindToken:
		return common.NewAppError(http.StatusUnauthorized, "Invalid or expired session", err)
	default:
		// Configuration and storage failures alike: fail closed, say nothing.
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}

func writeSession(w http.ResponseWriter, pair *model.TokenPair, user *model.SessionUser) *common.AppError {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(model.SessionResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   int(time.Until(pair.AccessExpiresAt).Seconds()),
		RefreshIn:   int(pair.RefreshIn.Seconds()),
		User:        user,
	})
	return nil
}

// clientIP extracts the caller's address, preferring the first entry of
// X-Forwarded-For when the service runs behind a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

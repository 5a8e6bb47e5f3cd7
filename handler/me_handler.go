package handler

import (
	"encoding/json"
	"go-admin-auth/common"
	"net/http"
)

// Me echoes the identity the auth middleware resolved from the access token.
// The admin frontend calls it on boot to restore its session state.
func Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	username, ok := r.Context().Value(UsernameKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid username in token", nil)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":       userID,
		"username": username,
	})
	return nil
}

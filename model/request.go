// file: model/request.go

package model

// LoginRequest defines the payload for session creation.
// It includes validation tags to ensure data integrity at the entry point.
type LoginRequest struct {
	Username          string            `json:"username" validate:"required,min=3,max=50"`
	Password          string            `json:"password" validate:"required,min=1"`
	DeviceFingerprint DeviceFingerprint `json:"deviceFingerprint"`
}

// RefreshRequest defines the payload for token rotation. The refresh secret
// itself travels in the session cookie, not in the body.
type RefreshRequest struct {
	DeviceFingerprint DeviceFingerprint `json:"deviceFingerprint"`
}

// SessionUser is the user summary returned on login.
type SessionUser struct {
	Username string `json:"username"`
	UUID     string `json:"uuid"`
}

// SessionResponse is the body returned by /login and /refresh. ExpiresIn is
// the access token lifetime in seconds; RefreshIn tells the client how many
// seconds before expiry it should schedule a refresh.
type SessionResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"`
	RefreshIn   int          `json:"refreshIn"`
	User        *SessionUser `json:"user,omitempty"`
}

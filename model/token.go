// file: model/token.go

package model

import (
	"database/sql"
	"time"
)

// RefreshToken holds the data for a refresh token in the database. Only the
// hash of the secret is ever stored; the plaintext is handed to the caller
// exactly once at issuance.
type RefreshToken struct {
	ID              int            `json:"id"`
	UserID          int            `json:"user_id"`
	TokenHash       string         `json:"-"` // never exposed in JSON responses
	IssuedAt        time.Time      `json:"issued_at"`
	ExpiresAt       time.Time      `json:"expires_at"`
	Revoked         bool           `json:"revoked"`
	FingerprintHash sql.NullString `json:"-"`
}

// TokenPair is what issuance hands back: the signed access token plus the
// one-time plaintext refresh secret and both expiries.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshSecret    string
	RefreshExpiresAt time.Time
	// RefreshIn is the client hint for scheduling the next refresh: the
	// access token lifetime minus the configured refresh-before-expiry
	// threshold.
	RefreshIn time.Duration
}

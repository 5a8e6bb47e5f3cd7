package model

import "time"

// Event is a structured telemetry record. Services return the events they
// produce alongside their results; the handler drains them through the
// publisher so the core never blocks on a telemetry backend.
//
// Fields must never contain a password or a raw token secret; only hashes,
// identifiers and booleans.
type Event struct {
	Name   string                 `json:"name"`
	At     time.Time              `json:"at"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// Event names emitted by the auth flows.
const (
	EventLoginAttempt        = "auth.login.attempt"
	EventLoginSuccess        = "auth.login.success"
	EventLoginFailure        = "auth.login.failure"
	EventLoginRateLimited    = "auth.login.rate_limited"
	EventTokenIssued         = "auth.token.issued"
	EventTokenEvicted        = "auth.token.evicted"
	EventRefreshSuccess      = "auth.refresh.success"
	EventRefreshFailure      = "auth.refresh.failure"
	EventFingerprintMismatch = "auth.refresh.fingerprint_mismatch"
	EventLogout              = "auth.logout"
)

// NewEvent stamps an event with the current time.
func NewEvent(name string, fields map[string]interface{}) Event {
	return Event{Name: name, At: time.Now(), Fields: fields}
}

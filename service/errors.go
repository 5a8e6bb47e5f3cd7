package service

import "errors"

// ErrorKind is the closed set of failure categories the auth flows can
// produce. Handlers switch on the kind to pick the externally visible
// message; the internal reason only ever reaches telemetry.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindAuthentication
	KindRateLimit
	KindToken
	KindConfiguration
	KindStorage
)

// Internal failure reasons. These are recorded in telemetry events and never
// surfaced to the client verbatim.
const (
	ReasonUserNotFound          = "user_not_found"
	ReasonInvalidPassword       = "invalid_password"
	ReasonAccountDisabled       = "account_disabled"
	ReasonAccountRequiresAction = "account_requires_action"
	ReasonTokenNotFound         = "token_not_found"
	ReasonTokenExpired          = "token_expired"
	ReasonTokenRevoked          = "token_revoked"
	ReasonFingerprintMismatch   = "fingerprint_mismatch"
	ReasonRateLimited           = "rate_limited"
	ReasonMissingSetting        = "missing_setting"
)

// AuthError is the tagged error type shared by all auth services.
type AuthError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func NewAuthenticationError(reason string) *AuthError {
	return &AuthError{Kind: KindAuthentication, Reason: reason}
}

func NewRateLimitError() *AuthError {
	return &AuthError{Kind: KindRateLimit, Reason: ReasonRateLimited}
}

func NewTokenError(reason string) *AuthError {
	return &AuthError{Kind: KindToken, Reason: reason}
}

func NewConfigurationError(reason string, err error) *AuthError {
	return &AuthError{Kind: KindConfiguration, Reason: reason, Err: err}
}

func NewStorageError(err error) *AuthError {
	return &AuthError{Kind: KindStorage, Reason: "storage_failure", Err: err}
}

// KindOf extracts the error kind, defaulting to KindStorage for errors that
// did not originate in this package (a bare driver error, for instance).
func KindOf(err error) ErrorKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindStorage
}

// ReasonOf extracts the internal reason for telemetry, or an empty string.
func ReasonOf(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason
	}
	return ""
}

package model

import "time"

// AccountStatus mirrors the status column of the users table. The identity
// store owns it; this service only ever reads it.
type AccountStatus string

const (
	StatusActive         AccountStatus = "active"
	StatusDisabled       AccountStatus = "disabled"
	StatusRequiresAction AccountStatus = "requires_action"
)

type User struct {
	ID           int           `json:"id"`
	UUID         string        `json:"uuid"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the access token payload. Subject carries the username,
// UserID the numeric id of the user row.
type AppClaims struct {
	UserID int `json:"uid"`
	jwt.RegisteredClaims
}

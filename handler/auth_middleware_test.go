package handler

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"go-admin-auth/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

var middlewareKey = func() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
}()

func signedAccessToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := &model.AppClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(middlewareKey)
	if err != nil {
		t.Fatalf("could not sign test token: %v", err)
	}
	return token
}

func protectedMe() http.Handler {
	middleware := NewAuthMiddleware(&middlewareKey.PublicKey)
	return middleware(ErrorHandlingMiddleware(Me))
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedAccessToken(t, time.Now().Add(time.Minute)))
	rr := httptest.NewRecorder()

	protectedMe().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "admin", body["username"])
	assert.Equal(t, float64(42), body["id"])
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		rr := httptest.NewRecorder()

		protectedMe().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()

		protectedMe().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signedAccessToken(t, time.Now().Add(-time.Minute)))
		rr := httptest.NewRecorder()

		protectedMe().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("HMAC-signed token is refused", func(t *testing.T) {
		// A token signed with the public key bytes as an HMAC secret must
		// not slip through the RSA method check.
		claims := jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(time.Minute).Unix()}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("guessed"))
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		rr := httptest.NewRecorder()

		protectedMe().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// file: router/router_test.go

package router_test

import (
	"go-admin-auth/router"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck_Integration(t *testing.T) {
	// Setup router. For this test, the auth handler and key can be nil.
	r := router.NewRouter(nil, nil)

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	expectedBody := `{"status":"API is healthy and running"}`
	assert.JSONEq(t, expectedBody, rr.Body.String())
}

package router

import (
	"crypto/rsa"
	"go-admin-auth/handler"
	"net/http"
)

func NewRouter(authHandler *handler.AuthHandler, publicKey *rsa.PublicKey) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.HealthCheck)

	mux.Handle("/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	authMiddleware := handler.NewAuthMiddleware(publicKey)
	mux.Handle("/me", authMiddleware(handler.ErrorHandlingMiddleware(handler.Me)))

	return mux
}

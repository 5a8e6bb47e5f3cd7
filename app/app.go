// File: app/app.go
package app

import (
	"context"
	"crypto/rsa"
	"go-admin-auth/config"
	"go-admin-auth/db"
	"go-admin-auth/handler"
	"go-admin-auth/logger"
	"go-admin-auth/repository"
	"go-admin-auth/router"
	"go-admin-auth/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.ApplyMigrations(database, "db/migrations"); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	// Redis backs the policy cache and the telemetry channel. Neither is on
	// the primary path, so a missing Redis degrades rather than aborts.
	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, running without policy cache and telemetry channel")
		redisClient = nil
	}

	privateKey, publicKey := mustLoadKeyPair()

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	settingRepo := repository.NewSettingRepository(database)

	var cache service.ICacheClient
	if redisClient != nil {
		cache = redisClient
	}
	policyService := service.NewPolicyService(settingRepo, cache)
	fingerprintService := service.NewFingerprintService()
	credentialService := service.NewCredentialService(userRepo)
	tokenService := service.NewTokenService(tokenRepo, policyService, fingerprintService,
		privateKey, config.AppConfig.JWT.Issuer, config.AppConfig.JWT.Audience)
	refreshService := service.NewRefreshService(tokenRepo, userRepo, fingerprintService, tokenService)
	publisher := service.NewPublisher(redisClient, config.AppConfig.Telemetry.Channel)

	bfCfg := config.AppConfig.BruteForce
	guard := service.NewBruteForceGuard(bfCfg.MaxAttempts, time.Duration(bfCfg.WindowSeconds)*time.Second)
	guard.StartSweeper(time.Duration(bfCfg.SweepSeconds) * time.Second)
	defer guard.Stop()

	cookies := handler.NewCookieManager(config.AppConfig.Server.Environment)
	authHandler := handler.NewAuthHandler(credentialService, tokenService, refreshService,
		tokenRepo, guard, cookies, publisher)

	r := router.NewRouter(authHandler, publicKey)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// mustLoadKeyPair reads the RSA signing key pair configured for access
// tokens. Missing or malformed key material is fatal: the service fails
// closed rather than falling back to a weaker signing scheme.
func mustLoadKeyPair() (*rsa.PrivateKey, *rsa.PublicKey) {
	cfg := config.AppConfig.JWT

	privatePEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		logger.Log.Fatalf("Cannot read signing private key: %v", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		logger.Log.Fatalf("Cannot parse signing private key: %v", err)
	}

	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		logger.Log.Fatalf("Cannot read signing public key: %v", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		logger.Log.Fatalf("Cannot parse signing public key: %v", err)
	}

	return privateKey, publicKey
}

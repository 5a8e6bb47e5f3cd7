package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"go-admin-auth/model"
	"go-admin-auth/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshSecretPrefix marks opaque refresh secrets so they are recognizable
// in client storage and bug reports without being guessable.
const refreshSecretPrefix = "rt_"

const refreshSecretBytes = 32

// PolicyLoader provides the current session policy.
type PolicyLoader interface {
	Load() (*SessionPolicy, error)
}

// TokenService issues access/refresh token pairs. Access tokens are
// short-lived RS256 assertions and are never persisted; refresh tokens are
// opaque random secrets stored only as a sha256 hash. Issuance enforces the
// per-user cap by revoking the oldest active tokens first.
type TokenService struct {
	tokenRepo    repository.ITokenRepository
	policy       PolicyLoader
	fingerprints *FingerprintService
	privateKey   *rsa.PrivateKey
	issuer       string
	audience     string
}

func NewTokenService(
	tokenRepo repository.ITokenRepository,
	policy PolicyLoader,
	fingerprints *FingerprintService,
	privateKey *rsa.PrivateKey,
	issuer, audience string,
) *TokenService {
	return &TokenService{
		tokenRepo:    tokenRepo,
		policy:       policy,
		fingerprints: fingerprints,
		privateKey:   privateKey,
		issuer:       issuer,
		audience:     audience,
	}
}

// Issue produces a new token pair for a user. Any storage failure during
// eviction or persistence aborts before the pair is handed back, so a token
// that was generated but not durably stored is never observable outside this
// method. The returned events cover issuance and any evictions; the caller
// publishes them.
func (s *TokenService) Issue(username string, userID int, fp model.DeviceFingerprint) (*model.TokenPair, []model.Event, error) {
	policy, err := s.policy.Load()
	if err != nil {
		return nil, nil, err
	}

	events, err := s.evictForCap(userID, policy.MaxTokensPerUser)
	if err != nil {
		return nil, events, err
	}

	now := time.Now()
	secret, err := newRefreshSecret()
	if err != nil {
		return nil, events, fmt.Errorf("generating refresh secret: %w", err)
	}

	accessExpiry := now.Add(policy.AccessTokenLifetime)
	accessToken, err := s.signAccessToken(username, userID, now, accessExpiry)
	if err != nil {
		return nil, events, fmt.Errorf("signing access token: %w", err)
	}

	fpHash, fpShort := s.fingerprints.Hash(fp)
	row := &model.RefreshToken{
		UserID:          userID,
		TokenHash:       HashSecret(secret),
		ExpiresAt:       now.Add(policy.RefreshTokenLifetime),
		FingerprintHash: sql.NullString{String: fpHash, Valid: true},
	}
	if err := s.tokenRepo.Insert(row); err != nil {
		return nil, events, NewStorageError(err)
	}

	events = append(events, model.NewEvent(model.EventTokenIssued, map[string]interface{}{
		"user_id":           userID,
		"token_id":          row.ID,
		"fingerprint_short": fpShort,
		"expires_at":        row.ExpiresAt,
	}))

	refreshIn := policy.AccessTokenLifetime - policy.RefreshBeforeExpiry
	if refreshIn < 0 {
		refreshIn = 0
	}

	return &model.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshSecret:    secret,
		RefreshExpiresAt: row.ExpiresAt,
		RefreshIn:        refreshIn,
	}, events, nil
}

// evictForCap revokes the oldest active tokens so that after the upcoming
// insert the user holds at most maxTokens non-revoked tokens. Eviction is a
// revoke, not a delete: the rows stay behind for the audit trail.
func (s *TokenService) evictForCap(userID, maxTokens int) ([]model.Event, error) {
	count, err := s.tokenRepo.CountActive(userID)
	if err != nil {
		return nil, NewStorageError(err)
	}
	if count < maxTokens {
		return nil, nil
	}

	toEvict := count - (maxTokens - 1)
	oldest, err := s.tokenRepo.OldestActive(userID, toEvict)
	if err != nil {
		return nil, NewStorageError(err)
	}

	var events []model.Event
	for _, token := range oldest {
		if err := s.tokenRepo.RevokeByID(token.ID); err != nil {
			return events, NewStorageError(err)
		}
		events = append(events, model.NewEvent(model.EventTokenEvicted, map[string]interface{}{
			"user_id":  userID,
			"token_id": token.ID,
		}))
	}
	return events, nil
}

func (s *TokenService) signAccessToken(username string, userID int, issuedAt, expiresAt time.Time) (string, error) {
	claims := &model.AppClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   username,
			Audience:  jwt.ClaimStrings{s.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
}

// newRefreshSecret generates the opaque refresh secret handed to the client.
func newRefreshSecret() (string, error) {
	b := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return refreshSecretPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// HashSecret is the one-way hash under which refresh secrets are stored and
// looked up. The plaintext never touches the database or the logs.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

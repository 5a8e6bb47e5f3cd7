// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"go-admin-auth/logger"
	"go-admin-auth/model"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Insert(token *model.RefreshToken) error
	GetByHash(tokenHash string) (*model.RefreshToken, error)
	CountActive(userID int) (int, error)
	OldestActive(userID, limit int) ([]*model.RefreshToken, error)
	RevokeByID(id int) error
	RevokeByHash(tokenHash string) error
	Consume(tokenHash string) (*model.RefreshToken, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

const tokenColumns = `id, user_id, token_hash, issued_at, expires_at, revoked, fingerprint_hash`

func scanToken(row *sql.Row) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	err := row.Scan(&token.ID, &token.UserID, &token.TokenHash,
		&token.IssuedAt, &token.ExpiresAt, &token.Revoked, &token.FingerprintHash)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Insert persists a new refresh token record.
func (r *TokenRepository) Insert(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token_hash, expires_at, fingerprint_hash)
	          VALUES ($1, $2, $3, $4) RETURNING id, issued_at`
	err := r.DB.QueryRow(query, token.UserID, token.TokenHash, token.ExpiresAt, token.FingerprintHash).
		Scan(&token.ID, &token.IssuedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetByHash retrieves a refresh token by its hashed value, regardless of its
// revocation or expiry state. Returns (nil, nil) when no row matches.
func (r *TokenRepository) GetByHash(tokenHash string) (*model.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE token_hash = $1`
	token, err := scanToken(r.DB.QueryRow(query, tokenHash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get refresh token by hash query")
		return nil, err
	}
	return token, nil
}

// CountActive returns the number of non-revoked refresh tokens for a user.
func (r *TokenRepository) CountActive(userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1 AND NOT revoked`
	err := r.DB.QueryRow(query, userID).Scan(&count)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).
			Error("Failed to count active refresh tokens")
		return 0, err
	}
	return count, nil
}

// OldestActive returns up to limit non-revoked tokens for a user, ordered by
// issuance time ascending. Used by eviction.
func (r *TokenRepository) OldestActive(userID, limit int) ([]*model.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens
	          WHERE user_id = $1 AND NOT revoked
	          ORDER BY issued_at ASC LIMIT $2`
	rows, err := r.DB.Query(query, userID, limit)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).
			Error("Failed to query oldest active refresh tokens")
		return nil, err
	}
	defer rows.Close()

	var tokens []*model.RefreshToken
	for rows.Next() {
		token := &model.RefreshToken{}
		if err := rows.Scan(&token.ID, &token.UserID, &token.TokenHash,
			&token.IssuedAt, &token.ExpiresAt, &token.Revoked, &token.FingerprintHash); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// RevokeByID flips the revoked flag on a single token. Rows are never
// deleted; revocation preserves the audit trail.
func (r *TokenRepository) RevokeByID(id int) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	if err != nil {
		logger.Log.WithError(err).WithField("token_id", id).
			Error("Failed to revoke refresh token by id")
	}
	return err
}

// RevokeByHash revokes the token matching a hash. Used on logout, where a
// token that is already revoked or unknown is not an error.
func (r *TokenRepository) RevokeByHash(tokenHash string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token_hash = $1`
	_, err := r.DB.Exec(query, tokenHash)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to revoke refresh token by hash")
	}
	return err
}

// Consume atomically marks a live token as revoked and returns it. The WHERE
// clause makes "read, validate, mark revoked" a single conditional update, so
// two concurrent refresh calls presenting the same secret can never both
// succeed. Returns (nil, nil) when no live row matched: the token is
// unknown, already used, or expired; callers that care which can look the
// hash up separately.
func (r *TokenRepository) Consume(tokenHash string) (*model.RefreshToken, error) {
	query := `UPDATE refresh_tokens SET revoked = TRUE
	          WHERE token_hash = $1 AND revoked = FALSE AND expires_at > now()
	          RETURNING ` + tokenColumns
	token, err := scanToken(r.DB.QueryRow(query, tokenHash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute consume refresh token query")
		return nil, err
	}
	return token, nil
}

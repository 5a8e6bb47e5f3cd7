package repository

import (
	"database/sql"
	"go-admin-auth/model"
)

// IUserRepository is the read-only view of the identity store this service
// needs. User rows are owned elsewhere; nothing here mutates them.
type IUserRepository interface {
	GetByUsername(username string) (*model.User, error)
	GetUsernameByID(userID int) (string, error)
	GetAccountStatus(userID int) (model.AccountStatus, error)
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetByUsername returns the user row for a username, or (nil, nil) when no
// such user exists. An error always means the storage layer failed.
func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, uuid, username, password_hash, status, created_at FROM users WHERE username = $1`
	err := r.DB.QueryRow(query, username).Scan(
		&user.ID, &user.UUID, &user.Username, &user.PasswordHash, &user.Status, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUsernameByID(userID int) (string, error) {
	var username string
	query := `SELECT username FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, userID).Scan(&username)
	if err != nil {
		return "", err
	}
	return username, nil
}

func (r *UserRepository) GetAccountStatus(userID int) (model.AccountStatus, error) {
	var status model.AccountStatus
	query := `SELECT status FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, userID).Scan(&status)
	if err != nil {
		return "", err
	}
	return status, nil
}

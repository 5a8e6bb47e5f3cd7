package repository

import (
	"database/sql"
)

// ISettingRepository is the settings provider: typed policy values live in
// the settings table, keyed by (section, key).
type ISettingRepository interface {
	Get(section, key string) (value string, found bool, err error)
}

type SettingRepository struct {
	DB *sql.DB
}

func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{DB: db}
}

func (r *SettingRepository) Get(section, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM settings WHERE section = $1 AND key = $2`
	err := r.DB.QueryRow(query, section, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

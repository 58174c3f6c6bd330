package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/film-rental-store/internal/model"
	"github.com/iliyamo/film-rental-store/internal/utils"
)

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

var ErrUsernameExists = errors.New("username already exists")

// Create inserts an admin account and returns its ID.  Only the bcrypt
// hash of the password is stored.
func (r *AdminRepo) Create(ctx context.Context, username, password string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admin_users (username, password_hash) VALUES (?,?)",
		username, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an admin account by its exact username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	username = strings.TrimSpace(username)
	var a model.AdminUser
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,created_at FROM admin_users WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	return a, err
}

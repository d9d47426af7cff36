package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/chanaka-devx/L-essence/internal/model"
	"github.com/chanaka-devx/L-essence/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser holds signup input before hashing.
type NewUser struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

const selectUser = "SELECT user_id,name,email,phone,password,role,created_at FROM users"

// Create hashes the password, inserts the user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u NewUser, cost int) (uint64, error) {
	email := normalizeEmail(u.Email)
	hash, err := utils.HashPassword(u.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, phone, password, role) VALUES (?,?,?,?,?)",
		strings.TrimSpace(u.Name), email, strings.TrimSpace(u.Phone), hash, u.Role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, selectUser+" WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, selectUser+" WHERE user_id=? LIMIT 1", id))
}

// UpdateProfile overwrites name, email and phone.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, email, phone string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, phone=? WHERE user_id=?",
		strings.TrimSpace(name), normalizeEmail(email), strings.TrimSpace(phone), id)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 affected rows for an unchanged row too
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.DB, "SELECT COUNT(*) FROM users")
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

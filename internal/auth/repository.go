package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/memorizabiblia/memoriza-api/internal/database"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInternalServer     = errors.New("internal server error")
)

// Repository defines the methods the Auth module provides for DB operations.
type Repository interface {
	CreateUser(ctx context.Context, user User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
	UpdateUserPassword(ctx context.Context, id, hashed string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(dbService database.Service) Repository {
	return &repository{db: dbService.DB()}
}

func (r *repository) CreateUser(ctx context.Context, user User) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.QueryRowContext(ctx, checkQuery, user.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	query := `
		INSERT INTO users (email, password, display_name)
		VALUES ($1, $2, $3)
		RETURNING id, email, display_name, created_at, updated_at
	`

	var created User
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Password, user.DisplayName).Scan(
		&created.ID, &created.Email, &created.DisplayName, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, ErrInternalServer
	}
	return &created, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password, display_name, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternalServer
	}
	return &u, nil
}

func (r *repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, password, display_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternalServer
	}
	return &u, nil
}

func (r *repository) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	query := `UPDATE users SET display_name = $2, updated_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, displayName); err != nil {
		return ErrInternalServer
	}
	return nil
}

func (r *repository) UpdateUserPassword(ctx context.Context, id, hashed string) error {
	query := `UPDATE users SET password = $2, updated_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hashed); err != nil {
		return ErrInternalServer
	}
	return nil
}

// Package repo implements the data access layer on MySQL. Repositories
// return (nil, nil) for missing rows; callers map that to their own
// not-found semantics.
package repo

import (
	"database/sql"
	"fmt"

	"github.com/teesbyshelsea/storefront/internal/database"
	"github.com/teesbyshelsea/storefront/internal/domain"
)

// UserRepository defines user persistence. The interface exists so service
// tests can substitute a mock.
type UserRepository interface {
	Create(user *domain.User) error
	GetByID(id string) (*domain.User, error)
	GetByEmail(email string) (*domain.User, error)
	Update(user *domain.User) error
}

type userRepo struct {
	db *database.DB
}

// NewUserRepository creates the MySQL-backed user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, account_type)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Tier),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(id string) (*domain.User, error) {
	user := &domain.User{}
	query := `
		SELECT id, email, name, password_hash, account_type, created_at, updated_at
		FROM users WHERE id = ?
	`

	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Tier,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (r *userRepo) GetByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	query := `
		SELECT id, email, name, password_hash, account_type, created_at, updated_at
		FROM users WHERE email = ?
	`

	err := r.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Tier,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

func (r *userRepo) Update(user *domain.User) error {
	query := `
		UPDATE users
		SET email = ?, name = ?, password_hash = ?, account_type = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Tier),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found: %s", user.ID)
	}
	return nil
}

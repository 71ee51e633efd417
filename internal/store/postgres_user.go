package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tienda-api/internal/domain"
)

// --- UserStorer Implementation ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO usuarios (email, password_hash, password_salt, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := s.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.PasswordSalt, user.IsAdmin,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "usuarios_email_key") || strings.Contains(pqErr.Detail, "Key (email)") {
				return nil, ErrUserEmailExists
			}
		}
		return nil, fmt.Errorf("store: CreateUser failed to scan row: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, password_salt, is_admin
		FROM usuarios
		WHERE email = $1;
	`
	var user domain.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordSalt,
		&user.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("store: GetUserByEmail failed to scan row: %w", err)
	}
	return &user, nil
}

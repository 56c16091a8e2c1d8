package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// ErrUserExists is returned when the username is already taken.
var ErrUserExists = errors.New("user already exists")

// CreateUser inserts a new account with a pre-hashed password.
func (s *Store) CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error) {
	if strings.TrimSpace(u.Username) == "" {
		return models.User{}, fmt.Errorf("username must not be empty")
	}
	if passwordHash == "" {
		return models.User{}, fmt.Errorf("password hash must not be empty")
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Avatar == "" {
		u.Avatar = strings.ToUpper(u.Username[:1])
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE username = ?`, u.Username).Scan(&exists); err != nil {
		return models.User{}, fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return models.User{}, ErrUserExists
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO users(id, username, full_name, password_hash, role, avatar) VALUES(?, ?, ?, ?, ?, ?)`,
		id, u.Username, u.FullName, passwordHash, u.Role, u.Avatar)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	created, _, err := s.GetUserByUsername(ctx, u.Username)
	return created, err
}

// GetUserByUsername returns the user record and its password hash.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, username, full_name, password_hash, role, avatar, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.FullName, &hash, &u.Role, &u.Avatar, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("get user: %w", err)
	}
	return u, hash, nil
}

// ListUsers returns every account ordered by username, without credentials.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username, full_name, role, avatar, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Avatar, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelin/recordkeep/internal/domain"
	"github.com/google/uuid"
)

// UserRepository implements domain.UserRepository using SQLite. Token
// entries live in the user_tokens child table so appends and removals are
// single-row statements rather than whole-list rewrites.
type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, user.Email, user.PasswordHash, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return r.withTokens(ctx, user)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, err
	}
	return r.withTokens(ctx, user)
}

func (r *UserRepository) GetByIDAndToken(ctx context.Context, id, token string) (*domain.User, error) {
	user, err := r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.created_at, u.updated_at
		 FROM users u
		 WHERE u.id = ?
		   AND EXISTS (SELECT 1 FROM user_tokens t WHERE t.user_id = u.id AND t.token = ?)`,
		id, token))
	if err != nil {
		return nil, err
	}
	return r.withTokens(ctx, user)
}

func (r *UserRepository) AppendToken(ctx context.Context, userID string, entry domain.TokenEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_tokens (user_id, access, token, created_at)
		 VALUES (?, ?, ?, ?)`,
		userID, entry.Access, entry.Token, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// RemoveToken deletes the matching token entry. Deleting a token that is
// not present is not an error.
func (r *UserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE user_id = ? AND token = ?`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveAllTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE user_id = ?`, userID,
	)
	if err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) withTokens(ctx context.Context, user *domain.User) (*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT access, token FROM user_tokens WHERE user_id = ? ORDER BY id`,
		user.ID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.TokenEntry
		if err := rows.Scan(&entry.Access, &entry.Token); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		user.Tokens = append(user.Tokens, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return user, nil
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint
// violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}

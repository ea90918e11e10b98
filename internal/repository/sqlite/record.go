package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avelin/recordkeep/internal/domain"
)

// RecordRepository implements domain.RecordRepository using SQLite.
type RecordRepository struct {
	db *sql.DB
}

func (r *RecordRepository) Create(ctx context.Context, record *domain.Record) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO records (user_id, title, body, done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.UserID, record.Title, record.Body, record.Done, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get record id: %w", err)
	}

	record.ID = id
	record.CreatedAt = now
	record.UpdatedAt = now
	return nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	record := &domain.Record{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, body, done, created_at, updated_at
		 FROM records WHERE id = ?`, id,
	).Scan(&record.ID, &record.UserID, &record.Title, &record.Body,
		&record.Done, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query record: %w", err)
	}
	return record, nil
}

func (r *RecordRepository) ListByUser(ctx context.Context, userID string) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, body, done, created_at, updated_at
		 FROM records WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var record domain.Record
		if err := rows.Scan(&record.ID, &record.UserID, &record.Title, &record.Body,
			&record.Done, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *RecordRepository) Update(ctx context.Context, record *domain.Record) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE records SET title = ?, body = ?, done = ?, updated_at = ?
		 WHERE id = ?`,
		record.Title, record.Body, record.Done, now, record.ID,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	record.UpdatedAt = now
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
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

package domain

import (
	"context"
	"time"
)

// Record is a single user-owned record.
type Record struct {
	ID        int64
	UserID    string
	Title     string
	Body      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordRepository defines persistence operations for records.
type RecordRepository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	Update(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id int64) error
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelin/recordkeep/internal/domain"
)

// RecordService handles record CRUD with validation and ownership checks.
type RecordService struct {
	records domain.RecordRepository
}

// NewRecordService creates a new RecordService.
func NewRecordService(records domain.RecordRepository) *RecordService {
	return &RecordService{records: records}
}

// Create creates a new record owned by the given user.
func (s *RecordService) Create(ctx context.Context, record *domain.Record) error {
	if strings.TrimSpace(record.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	if err := s.records.Create(ctx, record); err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// GetByID returns a record after checking ownership. A record owned by
// someone else reads as not found.
func (s *RecordService) GetByID(ctx context.Context, userID string, id int64) (*domain.Record, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

// ListByUser returns all records owned by a user.
func (s *RecordService) ListByUser(ctx context.Context, userID string) ([]domain.Record, error) {
	return s.records.ListByUser(ctx, userID)
}

// Update updates a record with validation and ownership check.
func (s *RecordService) Update(ctx context.Context, userID string, record *domain.Record) error {
	existing, err := s.records.GetByID(ctx, record.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrNotFound
	}

	if strings.TrimSpace(record.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	record.UserID = existing.UserID
	record.CreatedAt = existing.CreatedAt
	if err := s.records.Update(ctx, record); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// Delete deletes a record with ownership check.
func (s *RecordService) Delete(ctx context.Context, userID string, id int64) error {
	existing, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrNotFound
	}

	return s.records.Delete(ctx, id)
}

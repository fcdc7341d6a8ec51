package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/medicore/medicore/internal/domain"
)

// AuditRepository persists audit log entries written by the async audit
// worker.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("creating audit log: %w", err)
	}
	return nil
}

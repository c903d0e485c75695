package repositories

import (
	"context"
	"fmt"

	"farmstore/internal/models"

	"gorm.io/gorm"
)

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

var _ ContactRepository = (*GORMContactRepository)(nil)

func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{db: db}
}

func (r *GORMContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

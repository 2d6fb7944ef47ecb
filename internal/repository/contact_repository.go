package repository

import (
	"context"

	"gorm.io/gorm"

	"flanes/internal/model"
)

// ContactRepository defines contact message persistence operations.
type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context) ([]model.ContactMessage, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact message repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// List returns all contact messages, newest first.
func (r *contactRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	var msgs []model.ContactMessage
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

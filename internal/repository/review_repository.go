package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"flanes/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByFlan(ctx context.Context, flanID uint) ([]model.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Review, error)
	// List returns all reviews; a rating of 0 means any rating.
	List(ctx context.Context, rating int) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

// ListByFlan lists a flan's reviews with their authors, newest first.
func (r *reviewRepository) ListByFlan(ctx context.Context, flanID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("flan_id = ?", flanID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByUser lists a user's reviews with their flans, newest first.
func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Preload("Flan").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) List(ctx context.Context, rating int) ([]model.Review, error) {
	q := r.db.WithContext(ctx).Preload("Flan").Preload("User")
	if rating != 0 {
		q = q.Where("rating = ?", rating)
	}

	var reviews []model.Review
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

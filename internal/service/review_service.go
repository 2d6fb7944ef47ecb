package service

import (
	"context"
	"fmt"

	"flanes/internal/metrics"
	"flanes/internal/model"
	"flanes/internal/repository"
	"flanes/internal/validation"
)

// ReviewService handles product reviews.
type ReviewService interface {
	Submit(ctx context.Context, userID, flanID uint, form *validation.ReviewForm) (validation.Errors, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	flanRepo   repository.FlanRepository
	metrics    *metrics.Metrics
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, flanRepo repository.FlanRepository, m *metrics.Metrics) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		flanRepo:   flanRepo,
		metrics:    m,
	}
}

// Submit validates and stores a review by an authenticated user.
func (s *reviewService) Submit(ctx context.Context, userID, flanID uint, form *validation.ReviewForm) (validation.Errors, error) {
	flan, err := findVisibleFlan(ctx, s.flanRepo, flanID, true)
	if err != nil {
		return nil, err
	}

	rating, errs := validation.ValidateReview(form)
	if !errs.Valid() {
		return errs, nil
	}

	review := &model.Review{
		FlanID:  flan.ID,
		UserID:  userID,
		Rating:  rating,
		Comment: form.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.metrics.ReviewCreated()
	return validation.Errors{}, nil
}

// ListByUser lists the reviews a user wrote, newest first.
func (s *reviewService) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "flanes/internal/errors"
	"flanes/internal/model"
	"flanes/internal/repository"
	"flanes/internal/slug"
)

// FlanInput is the body of a create or update flan request.
type FlanInput struct {
	Name        string `json:"name" validate:"required,max=64" example:"Flan de Coco"`
	Description string `json:"description" example:"Con coco rallado"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=80" example:"flan-de-coco"`
	IsPrivate   bool   `json:"is_private"`
	Price       string `json:"price" validate:"required" example:"3000.00"`
}

// AdminService handles catalog management and back-office listings.
type AdminService interface {
	CreateFlan(ctx context.Context, in FlanInput) (*model.Flan, error)
	UpdateFlan(ctx context.Context, id uint, in FlanInput) (*model.Flan, error)
	DeleteFlan(ctx context.Context, id uint) error
	ListFlans(ctx context.Context, filter repository.FlanFilter) ([]model.Flan, error)
	ListContactMessages(ctx context.Context) ([]model.ContactMessage, error)
	ListReviews(ctx context.Context, rating int) ([]model.Review, error)
}

type adminService struct {
	flanRepo    repository.FlanRepository
	contactRepo repository.ContactRepository
	reviewRepo  repository.ReviewRepository
}

// NewAdminService creates a new admin service.
func NewAdminService(flanRepo repository.FlanRepository, contactRepo repository.ContactRepository, reviewRepo repository.ReviewRepository) AdminService {
	return &adminService{
		flanRepo:    flanRepo,
		contactRepo: contactRepo,
		reviewRepo:  reviewRepo,
	}
}

// CreateFlan stores a new flan. The slug is derived from the name when the
// input leaves it empty.
func (s *adminService) CreateFlan(ctx context.Context, in FlanInput) (*model.Flan, error) {
	flan := &model.Flan{}
	if err := s.apply(ctx, flan, in); err != nil {
		return nil, err
	}

	if err := s.flanRepo.Create(ctx, flan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, fmt.Errorf("create flan: %w", err)
	}
	return flan, nil
}

// UpdateFlan replaces the editable fields of a flan.
func (s *adminService) UpdateFlan(ctx context.Context, id uint, in FlanInput) (*model.Flan, error) {
	flan, err := s.flanRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFlanNotFound
		}
		return nil, fmt.Errorf("get flan: %w", err)
	}

	if err := s.apply(ctx, flan, in); err != nil {
		return nil, err
	}

	if err := s.flanRepo.Update(ctx, flan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, fmt.Errorf("update flan: %w", err)
	}
	return flan, nil
}

// DeleteFlan removes a flan together with its cart lines and reviews.
func (s *adminService) DeleteFlan(ctx context.Context, id uint) error {
	n, err := s.flanRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete flan: %w", err)
	}
	if n == 0 {
		return apperrors.ErrFlanNotFound
	}
	return nil
}

// ListFlans lists flans of both visibilities matching filter.
func (s *adminService) ListFlans(ctx context.Context, filter repository.FlanFilter) ([]model.Flan, error) {
	flans, err := s.flanRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list flans: %w", err)
	}
	return flans, nil
}

// ListContactMessages lists contact messages, newest first.
func (s *adminService) ListContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	msgs, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return msgs, nil
}

// ListReviews lists reviews, newest first. A zero rating lists all of them.
func (s *adminService) ListReviews(ctx context.Context, rating int) ([]model.Review, error) {
	if rating != 0 && (rating < model.MinRating || rating > model.MaxRating) {
		return []model.Review{}, nil
	}
	reviews, err := s.reviewRepo.List(ctx, rating)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// apply copies in onto flan after checking the price and slug.
func (s *adminService) apply(ctx context.Context, flan *model.Flan, in FlanInput) error {
	price, err := ParsePrice(in.Price)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(in.Name)
	flanSlug := strings.TrimSpace(in.Slug)
	if flanSlug == "" {
		flanSlug = slug.Make(name)
	}
	if !slug.Valid(flanSlug) {
		return apperrors.ErrInvalidSlug
	}

	existing, err := s.flanRepo.FindBySlug(ctx, flanSlug)
	switch {
	case err == nil && existing.ID != flan.ID:
		return apperrors.ErrSlugTaken
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("check slug: %w", err)
	}

	flan.Name = name
	flan.Description = strings.TrimSpace(in.Description)
	flan.ImageURL = strings.TrimSpace(in.ImageURL)
	if flan.ImageURL == "" {
		flan.ImageURL = model.DefaultFlanImageURL
	}
	flan.Slug = flanSlug
	flan.IsPrivate = in.IsPrivate
	flan.Price = price
	return nil
}

// ParsePrice parses a non-negative price with at most two decimals and up
// to six integer digits.
func ParsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperrors.ErrInvalidPrice
	}
	if price.IsNegative() || !price.Equal(price.Round(2)) {
		return decimal.Zero, apperrors.ErrInvalidPrice
	}
	if price.GreaterThanOrEqual(decimal.New(1, 6)) {
		return decimal.Zero, apperrors.ErrInvalidPrice
	}
	return price.Round(2), nil
}

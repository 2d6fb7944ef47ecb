package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "flanes/internal/errors"
	"flanes/internal/model"
	"flanes/internal/repository"
)

// CatalogPageSize is the number of flans per catalog page.
const CatalogPageSize = 10

// CatalogPage is one page of the public catalog.
type CatalogPage struct {
	Flans      []model.Flan `json:"flans"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// HasPrev reports whether a previous page exists.
func (p *CatalogPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p *CatalogPage) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number.
func (p *CatalogPage) PrevPage() int { return p.Page - 1 }

// NextPage returns the next page number.
func (p *CatalogPage) NextPage() int { return p.Page + 1 }

// ProductDetail is a flan with its reviews, newest first.
type ProductDetail struct {
	Flan    *model.Flan
	Reviews []model.Review
}

// AverageRating returns the mean review rating, or 0 without reviews.
func (d *ProductDetail) AverageRating() float64 {
	if len(d.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range d.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(d.Reviews))
}

// CatalogService handles catalog browsing.
type CatalogService interface {
	ListPublic(ctx context.Context) ([]model.Flan, error)
	ListCatalog(ctx context.Context, page int) (*CatalogPage, error)
	ListPrivate(ctx context.Context) ([]model.Flan, error)
	GetProductDetail(ctx context.Context, id uint, authenticated bool) (*ProductDetail, error)
}

type catalogService struct {
	flanRepo   repository.FlanRepository
	reviewRepo repository.ReviewRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(flanRepo repository.FlanRepository, reviewRepo repository.ReviewRepository) CatalogService {
	return &catalogService{
		flanRepo:   flanRepo,
		reviewRepo: reviewRepo,
	}
}

// ListPublic lists every public flan ordered by name.
func (s *catalogService) ListPublic(ctx context.Context) ([]model.Flan, error) {
	flans, err := s.flanRepo.ListByVisibility(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list public flans: %w", err)
	}
	return flans, nil
}

// ListCatalog returns one page of public flans. Pages below 1 are treated
// as the first page; pages past the end are empty.
func (s *catalogService) ListCatalog(ctx context.Context, page int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}

	flans, total, err := s.flanRepo.PageByVisibility(ctx, false, (page-1)*CatalogPageSize, CatalogPageSize)
	if err != nil {
		return nil, fmt.Errorf("page public flans: %w", err)
	}

	return &CatalogPage{
		Flans:      flans,
		Page:       page,
		PerPage:    CatalogPageSize,
		Total:      total,
		TotalPages: int((total + CatalogPageSize - 1) / CatalogPageSize),
	}, nil
}

// ListPrivate lists every private flan ordered by name.
func (s *catalogService) ListPrivate(ctx context.Context) ([]model.Flan, error) {
	flans, err := s.flanRepo.ListByVisibility(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list private flans: %w", err)
	}
	return flans, nil
}

// GetProductDetail returns a flan and its reviews. Private flans are
// reported as not found to anonymous callers.
func (s *catalogService) GetProductDetail(ctx context.Context, id uint, authenticated bool) (*ProductDetail, error) {
	flan, err := findVisibleFlan(ctx, s.flanRepo, id, authenticated)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByFlan(ctx, flan.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &ProductDetail{Flan: flan, Reviews: reviews}, nil
}

// findVisibleFlan loads a flan, hiding private flans from anonymous callers.
func findVisibleFlan(ctx context.Context, repo repository.FlanRepository, id uint, authenticated bool) (*model.Flan, error) {
	flan, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFlanNotFound
		}
		return nil, fmt.Errorf("get flan: %w", err)
	}
	if !flan.VisibleTo(authenticated) {
		return nil, apperrors.ErrFlanNotFound
	}
	return flan, nil
}

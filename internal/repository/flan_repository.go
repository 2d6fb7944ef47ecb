package repository

import (
	"context"

	"gorm.io/gorm"

	"flanes/internal/model"
)

// FlanFilter narrows an administrative flan listing.
type FlanFilter struct {
	// Private filters by visibility when non-nil.
	Private *bool
	// Query matches name or description substrings when non-empty.
	Query string
}

// FlanRepository defines flan persistence operations.
type FlanRepository interface {
	Create(ctx context.Context, flan *model.Flan) error
	Update(ctx context.Context, flan *model.Flan) error
	Delete(ctx context.Context, id uint) (int64, error)
	FindByID(ctx context.Context, id uint) (*model.Flan, error)
	FindBySlug(ctx context.Context, slug string) (*model.Flan, error)
	ListByVisibility(ctx context.Context, private bool) ([]model.Flan, error)
	PageByVisibility(ctx context.Context, private bool, offset, limit int) ([]model.Flan, int64, error)
	List(ctx context.Context, filter FlanFilter) ([]model.Flan, error)
}

type flanRepository struct {
	db *gorm.DB
}

// NewFlanRepository creates a new flan repository.
func NewFlanRepository(db *gorm.DB) FlanRepository {
	return &flanRepository{db: db}
}

// Create creates a new flan.
func (r *flanRepository) Create(ctx context.Context, flan *model.Flan) error {
	return r.db.WithContext(ctx).Create(flan).Error
}

// Update saves every column of an existing flan.
func (r *flanRepository) Update(ctx context.Context, flan *model.Flan) error {
	return r.db.WithContext(ctx).Save(flan).Error
}

// Delete removes a flan and reports how many rows were deleted.
func (r *flanRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Flan{}, id)
	return res.RowsAffected, res.Error
}

// FindByID finds a flan by ID.
func (r *flanRepository) FindByID(ctx context.Context, id uint) (*model.Flan, error) {
	var flan model.Flan
	if err := r.db.WithContext(ctx).First(&flan, id).Error; err != nil {
		return nil, err
	}
	return &flan, nil
}

// FindBySlug finds a flan by its unique slug.
func (r *flanRepository) FindBySlug(ctx context.Context, slug string) (*model.Flan, error) {
	var flan model.Flan
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&flan).Error; err != nil {
		return nil, err
	}
	return &flan, nil
}

// ListByVisibility lists all public or all private flans ordered by name.
func (r *flanRepository) ListByVisibility(ctx context.Context, private bool) ([]model.Flan, error) {
	var flans []model.Flan
	if err := r.db.WithContext(ctx).
		Where("is_private = ?", private).
		Order("name").Order("id").
		Find(&flans).Error; err != nil {
		return nil, err
	}
	return flans, nil
}

// PageByVisibility returns one page of flans ordered by name together with
// the total number of matching rows.
func (r *flanRepository) PageByVisibility(ctx context.Context, private bool, offset, limit int) ([]model.Flan, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Flan{}).
		Where("is_private = ?", private).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	flans := []model.Flan{}
	if int64(offset) >= total {
		return flans, total, nil
	}
	if err := r.db.WithContext(ctx).
		Where("is_private = ?", private).
		Order("name").Order("id").
		Offset(offset).Limit(limit).
		Find(&flans).Error; err != nil {
		return nil, 0, err
	}
	return flans, total, nil
}

// List lists flans for administration, ordered by name.
func (r *flanRepository) List(ctx context.Context, filter FlanFilter) ([]model.Flan, error) {
	q := r.db.WithContext(ctx).Model(&model.Flan{})
	if filter.Private != nil {
		q = q.Where("is_private = ?", *filter.Private)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var flans []model.Flan
	if err := q.Order("name").Order("id").Find(&flans).Error; err != nil {
		return nil, err
	}
	return flans, nil
}

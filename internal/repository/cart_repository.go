package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"flanes/internal/model"
)

// CartRepository defines cart line persistence operations.
type CartRepository interface {
	// AddOne inserts a (user, flan) line with quantity 1, or increments the
	// existing line's quantity, in a single statement.
	AddOne(ctx context.Context, userID, flanID uint) error
	// DeleteOwned deletes the line only if it belongs to userID.
	DeleteOwned(ctx context.Context, userID, itemID uint) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]model.CartItem, error)
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// AddOne upserts on the (user_id, flan_id) unique index.
func (r *cartRepository) AddOne(ctx context.Context, userID, flanID uint) error {
	item := model.CartItem{UserID: userID, FlanID: flanID, Quantity: 1}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "flan_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + ?", 1),
			}),
		}).
		Create(&item).Error
}

// DeleteOwned deletes a cart line scoped to its owner.
func (r *cartRepository) DeleteOwned(ctx context.Context, userID, itemID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&model.CartItem{})
	return res.RowsAffected, res.Error
}

// ListByUser lists a user's cart lines with their flans, oldest first.
func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Flan").
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. There is at most one row per
// (user, flan) pair; repeated adds increment Quantity.
type CartItem struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_flan"`
	FlanID   uint `json:"flan_id" gorm:"not null;uniqueIndex:idx_cart_user_flan;index"`
	Quantity uint `json:"quantity" gorm:"not null;default:1;check:quantity >= 1"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Flan Flan `json:"flan" gorm:"foreignKey:FlanID;constraint:OnDelete:CASCADE"`
}

// LineTotal returns unit price times quantity.
func (ci *CartItem) LineTotal() decimal.Decimal {
	return ci.Flan.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

func (ci *CartItem) String() string {
	return fmt.Sprintf("%d x %s", ci.Quantity, ci.Flan.Name)
}

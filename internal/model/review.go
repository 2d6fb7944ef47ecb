package model

import "time"

const (
	// MinRating is the lowest accepted review rating.
	MinRating = 1
	// MaxRating is the highest accepted review rating.
	MaxRating = 5
)

// Review is a user's rating and comment for a flan. Rows are append-only;
// CreatedAt is set once by GORM on insert.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FlanID    uint      `json:"flan_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;<-:create"`

	// Relations
	Flan Flan `json:"flan,omitempty" gorm:"foreignKey:FlanID;constraint:OnDelete:CASCADE"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

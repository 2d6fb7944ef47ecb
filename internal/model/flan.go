package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultFlanImageURL is used when a flan is stored without a picture.
const DefaultFlanImageURL = "https://upload.wikimedia.org/wikipedia/commons/6/64/Cr%C3%A8me_caramel_2.jpg"

// Flan represents a product in the catalog.
type Flan struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UUID        uuid.UUID       `json:"uuid" gorm:"type:char(36);uniqueIndex;not null"`
	Name        string          `json:"name" gorm:"size:64;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	ImageURL    string          `json:"image_url" gorm:"size:255;not null"`
	Slug        string          `json:"slug" gorm:"size:80;uniqueIndex;not null"`
	IsPrivate   bool            `json:"is_private" gorm:"default:false;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(8,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate fills in the public identifier and the default picture.
func (f *Flan) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	if f.ImageURL == "" {
		f.ImageURL = DefaultFlanImageURL
	}
	return nil
}

// VisibleTo reports whether the flan may be shown to a caller.
// Private flans are only visible to authenticated callers.
func (f *Flan) VisibleTo(authenticated bool) bool {
	return !f.IsPrivate || authenticated
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a product category belonging to a store.
// The referenced banner must belong to the same store.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StoreID   uint           `json:"store_id" gorm:"index;not null"`
	BannerID  uint           `json:"banner_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Banner *Banner `json:"banner,omitempty" gorm:"foreignKey:BannerID"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Product represents the product master data for a store.
// The referenced category must belong to the same store. Every product
// owns at least one image; the image set is replaced wholesale on edit.
type Product struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	StoreID    uint    `json:"store_id" gorm:"index;not null"`
	CategoryID uint    `json:"category_id" gorm:"index;not null"`
	Name       string  `json:"name" gorm:"type:varchar(255);not null"`
	Price      float64 `json:"price" gorm:"not null"`
	IsFeatured bool    `json:"is_featured" gorm:"default:false"`
	IsArchived bool    `json:"is_archived" gorm:"default:false"`

	// Optional descriptive metadata, null when not provided
	Description       *string `json:"description" gorm:"type:text"`
	ActiveIngredients *string `json:"active_ingredients" gorm:"type:text"`
	NetWeight         *string `json:"net_weight" gorm:"type:varchar(100)"`
	Manufacturer      *string `json:"manufacturer" gorm:"type:varchar(255)"`
	ShelfLife         *string `json:"shelf_life" gorm:"type:varchar(100)"`
	Packaging         *string `json:"packaging" gorm:"type:varchar(255)"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Images   []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	Category *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// ProductImage represents a single image owned by a product.
// Rows are hard-deleted when the product's image set is replaced, so
// image identity is never reused across an edit.
type ProductImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

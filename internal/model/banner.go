package model

import (
	"time"

	"gorm.io/gorm"
)

// Banner represents a promotional banner image belonging to a store
type Banner struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StoreID   uint           `json:"store_id" gorm:"index;not null"`
	Label     string         `json:"label" gorm:"type:varchar(255);not null"`
	ImageURL  string         `json:"image_url" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Store represents a tenant's store stored in the database.
// Every other resource belongs to exactly one store, directly or
// through its parent, and only the owner may mutate it.
type Store struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	OwnerID   uint           `json:"owner_id" gorm:"index;not null"` // Reference to the User ID who created this store
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

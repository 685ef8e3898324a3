package models

import (
	"time"

	"github.com/google/uuid"
)

// Subcategory is a curated label the back office offers when classifying
// products of a given type.
type Subcategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductType string    `gorm:"column:product_type;not null"`
	Name        string    `gorm:"column:name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

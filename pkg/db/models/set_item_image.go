package models

import (
	"time"

	"github.com/google/uuid"
)

// SetItemImage stores one ordered image URL for a set item.
type SetItemImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SetItemID    uuid.UUID `gorm:"column:set_item_id;type:uuid;not null"`
	URL          string    `gorm:"column:url;not null"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

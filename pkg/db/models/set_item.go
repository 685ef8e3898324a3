package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetItem is one constituent line of a set product. ChildProductID links
// it to the standalone Product generated so the item can be sold alone.
type SetItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name           string          `gorm:"column:name;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL       *string         `gorm:"column:image_url"`
	ChildProductID *uuid.UUID      `gorm:"column:child_product_id;type:uuid"`
	Position       int             `gorm:"column:position;not null;default:0"`
	Images         []SetItemImage  `gorm:"foreignKey:SetItemID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

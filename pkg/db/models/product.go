package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mobelhaus/showroom-backend/pkg/enums"
)

// Product represents one catalog listing. A product can be a plain item,
// a set (bundle) composed of SetItems, or the standalone child generated
// for a set item so it can be sold separately.
type Product struct {
	ID                  uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category            enums.ProductCategory `gorm:"column:category;type:text;not null"`
	ProductType         *string               `gorm:"column:product_type"`
	Subcategory         *string               `gorm:"column:subcategory"`
	Name                string                `gorm:"column:name;not null"`
	Description         *string               `gorm:"column:description"`
	PriceOriginal       decimal.Decimal       `gorm:"column:price_original;type:numeric(12,2);not null"`
	DiscountPercent     float64               `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	IsSet               bool                  `gorm:"column:is_set;not null;default:false"`
	PartOfSet           *uuid.UUID            `gorm:"column:part_of_set;type:uuid"`
	CanBeSoldSeparately bool                  `gorm:"column:can_be_sold_separately;not null;default:true"`
	IsNew               bool                  `gorm:"column:is_new;not null;default:false"`
	Tags                pq.StringArray        `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Images              []ProductImage        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	SetItems            []SetItem             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

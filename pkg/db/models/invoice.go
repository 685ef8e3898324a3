package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice holds the data behind a printable customer invoice. Layout and
// rendering live entirely on the client.
type Invoice struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerPhone   *string           `gorm:"column:customer_phone"`
	CustomerEmail   *string           `gorm:"column:customer_email"`
	CustomerAddress *string           `gorm:"column:customer_address"`
	DiscountAmount  decimal.Decimal   `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	Notes           *string           `gorm:"column:notes"`
	LineItems       []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// InvoiceLineItem is one priced line on an invoice.
type InvoiceLineItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null"`
	Description string          `gorm:"column:description;not null"`
	Qty         int             `gorm:"column:qty;not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Position    int             `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

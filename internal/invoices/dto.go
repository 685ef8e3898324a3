package invoices

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// InvoiceDTO is the printable invoice payload. Subtotal and total are
// derived from the line items so the client never recomputes money.
type InvoiceDTO struct {
	ID              uuid.UUID     `json:"id"`
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   *string       `json:"customer_phone,omitempty"`
	CustomerEmail   *string       `json:"customer_email,omitempty"`
	CustomerAddress *string       `json:"customer_address,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Notes           *string       `json:"notes,omitempty"`
	LineItems       []LineItemDTO `json:"line_items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// LineItemDTO is one priced invoice line.
type LineItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Position    int             `json:"position"`
}

// NewInvoiceDTO builds the payload with derived money fields. A discount
// larger than the subtotal clamps the total at zero.
func NewInvoiceDTO(invoice *models.Invoice) *InvoiceDTO {
	dto := &InvoiceDTO{
		ID:              invoice.ID,
		CustomerName:    invoice.CustomerName,
		CustomerPhone:   invoice.CustomerPhone,
		CustomerEmail:   invoice.CustomerEmail,
		CustomerAddress: invoice.CustomerAddress,
		DiscountAmount:  invoice.DiscountAmount,
		Notes:           invoice.Notes,
		CreatedAt:       invoice.CreatedAt,
		UpdatedAt:       invoice.UpdatedAt,
		Subtotal:        decimal.Zero,
	}

	items := append([]models.InvoiceLineItem{}, invoice.LineItems...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	dto.LineItems = make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty))).Round(2)
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
			Position:    item.Position,
		})
		dto.Subtotal = dto.Subtotal.Add(lineTotal)
	}

	dto.Total = dto.Subtotal.Sub(invoice.DiscountAmount)
	if dto.Total.IsNegative() {
		dto.Total = decimal.Zero
	}
	return dto
}

package invoices

import (
	"context"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists invoices and their line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the invoice row only.
func (r *Repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Omit("LineItems").Create(invoice).Error
}

// Update saves the invoice row only.
func (r *Repository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Omit("LineItems").Save(invoice).Error
}

// Delete removes the invoice; line items go with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id).Error
}

// FindByID loads one invoice with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List loads invoices newest first.
func (r *Repository) List(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ReplaceLineItems replaces every line on the invoice.
func (r *Repository) ReplaceLineItems(ctx context.Context, invoiceID uuid.UUID, items []models.InvoiceLineItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceLineItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

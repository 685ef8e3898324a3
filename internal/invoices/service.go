package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/db"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes invoice management for the back office.
type Service interface {
	Create(ctx context.Context, input InvoiceInput) (*InvoiceDTO, error)
	Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*InvoiceDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error)
	List(ctx context.Context) ([]InvoiceDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LineItemInput is one priced line on a save payload.
type LineItemInput struct {
	Description string
	Qty         int
	UnitPrice   decimal.Decimal
}

// InvoiceInput is the full save payload; updates replace the stored record.
type InvoiceInput struct {
	CustomerName    string
	CustomerPhone   *string
	CustomerEmail   *string
	CustomerAddress *string
	DiscountAmount  decimal.Decimal
	Notes           *string
	LineItems       []LineItemInput
}

func (in InvoiceInput) validate() error {
	if in.CustomerName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if in.DiscountAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_amount cannot be negative")
	}
	if len(in.LineItems) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	for _, item := range in.LineItems {
		if item.Description == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item description is required")
		}
		if item.Qty < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item qty must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item unit_price cannot be negative")
		}
	}
	return nil
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs the invoice service.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

func lineItemModels(invoiceID uuid.UUID, items []LineItemInput) []models.InvoiceLineItem {
	out := make([]models.InvoiceLineItem, 0, len(items))
	for position, item := range items {
		out = append(out, models.InvoiceLineItem{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			Description: item.Description,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			Position:    position,
		})
	}
	return out
}

// Create stores a new invoice with its lines.
func (s *service) Create(ctx context.Context, input InvoiceInput) (*InvoiceDTO, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created *models.Invoice
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invoice := &models.Invoice{
			ID:              uuid.New(),
			CustomerName:    input.CustomerName,
			CustomerPhone:   input.CustomerPhone,
			CustomerEmail:   input.CustomerEmail,
			CustomerAddress: input.CustomerAddress,
			DiscountAmount:  input.DiscountAmount,
			Notes:           input.Notes,
		}
		if err := repo.Create(ctx, invoice); err != nil {
			return err
		}
		if err := repo.ReplaceLineItems(ctx, invoice.ID, lineItemModels(invoice.ID, input.LineItems)); err != nil {
			return err
		}
		stored, err := repo.FindByID(ctx, invoice.ID)
		if err != nil {
			return err
		}
		created = stored
		return nil
	})
	if err != nil {
		s.logg.Error(ctx, "creating invoice failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating invoice")
	}
	return NewInvoiceDTO(created), nil
}

// Update replaces the stored invoice with the payload.
func (s *service) Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*InvoiceDTO, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var updated *models.Invoice
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		existing.CustomerName = input.CustomerName
		existing.CustomerPhone = input.CustomerPhone
		existing.CustomerEmail = input.CustomerEmail
		existing.CustomerAddress = input.CustomerAddress
		existing.DiscountAmount = input.DiscountAmount
		existing.Notes = input.Notes
		existing.LineItems = nil

		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		if err := repo.ReplaceLineItems(ctx, existing.ID, lineItemModels(existing.ID, input.LineItems)); err != nil {
			return err
		}
		stored, err := repo.FindByID(ctx, existing.ID)
		if err != nil {
			return err
		}
		updated = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		s.logg.Error(ctx, "updating invoice failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating invoice")
	}
	return NewInvoiceDTO(updated), nil
}

// Get loads one invoice.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading invoice")
	}
	return NewInvoiceDTO(invoice), nil
}

// List returns invoices newest first.
func (s *service) List(ctx context.Context) ([]InvoiceDTO, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing invoices")
	}
	out := make([]InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		out = append(out, *NewInvoiceDTO(&invoices[i]))
	}
	return out, nil
}

// Delete removes an invoice and its lines.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}
		if err := repo.ReplaceLineItems(ctx, id, nil); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		s.logg.Error(ctx, "deleting invoice failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting invoice")
	}
	return nil
}

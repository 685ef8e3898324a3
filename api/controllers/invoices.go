package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mobelhaus/showroom-backend/api/responses"
	"github.com/mobelhaus/showroom-backend/api/validators"
	"github.com/mobelhaus/showroom-backend/internal/invoices"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
)

type invoiceLineItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Qty         int             `json:"qty" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type invoiceRequest struct {
	CustomerName    string                   `json:"customer_name" validate:"required"`
	CustomerPhone   *string                  `json:"customer_phone,omitempty"`
	CustomerEmail   *string                  `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerAddress *string                  `json:"customer_address,omitempty"`
	DiscountAmount  decimal.Decimal          `json:"discount_amount"`
	Notes           *string                  `json:"notes,omitempty"`
	LineItems       []invoiceLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
}

func (r invoiceRequest) toInput() invoices.InvoiceInput {
	items := make([]invoices.LineItemInput, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		items = append(items, invoices.LineItemInput{
			Description: strings.TrimSpace(item.Description),
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
		})
	}
	return invoices.InvoiceInput{
		CustomerName:    strings.TrimSpace(r.CustomerName),
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		CustomerAddress: r.CustomerAddress,
		DiscountAmount:  r.DiscountAmount,
		Notes:           r.Notes,
		LineItems:       items,
	}
}

// AdminListInvoices lists invoices newest first.
func AdminListInvoices(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminGetInvoice loads one invoice.
func AdminGetInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "invoiceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice id"))
			return
		}
		invoice, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

// AdminCreateInvoice stores a new invoice with its lines.
func AdminCreateInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}
		var payload invoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminUpdateInvoice replaces a stored invoice with the payload.
func AdminUpdateInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "invoiceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice id"))
			return
		}
		var payload invoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminDeleteInvoice removes an invoice and its lines.
func AdminDeleteInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "invoiceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice id"))
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mobelhaus/showroom-backend/api/responses"
	"github.com/mobelhaus/showroom-backend/api/validators"
	"github.com/mobelhaus/showroom-backend/internal/catalog"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
)

type productImageRequest struct {
	URL          string `json:"url" validate:"required"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
}

type setItemRequest struct {
	Name           string                `json:"name" validate:"required"`
	Price          decimal.Decimal       `json:"price"`
	ChildProductID *string               `json:"child_product_id,omitempty"`
	Images         []productImageRequest `json:"images,omitempty"`
}

type productRequest struct {
	Category            string                `json:"category" validate:"required"`
	ProductType         *string               `json:"product_type,omitempty"`
	Subcategory         *string               `json:"subcategory,omitempty"`
	Name                string                `json:"name" validate:"required"`
	Description         *string               `json:"description,omitempty"`
	PriceOriginal       decimal.Decimal       `json:"price_original"`
	DiscountPercent     float64               `json:"discount_percent" validate:"gte=0,lte=100"`
	CanBeSoldSeparately *bool                 `json:"can_be_sold_separately,omitempty"`
	IsNew               bool                  `json:"is_new"`
	Tags                []string              `json:"tags,omitempty"`
	Images              []productImageRequest `json:"images,omitempty"`
	SetItems            []setItemRequest      `json:"set_items,omitempty"`
}

func (r productRequest) toInput() (catalog.ProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	items := make([]catalog.SetItemInput, 0, len(r.SetItems))
	for _, item := range r.SetItems {
		input := catalog.SetItemInput{
			Name:   strings.TrimSpace(item.Name),
			Price:  item.Price,
			Images: imageInputs(item.Images),
		}
		if item.ChildProductID != nil {
			childID, err := uuid.Parse(strings.TrimSpace(*item.ChildProductID))
			if err != nil {
				return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid child product id")
			}
			input.ChildProductID = &childID
		}
		items = append(items, input)
	}

	return catalog.ProductInput{
		Category:            category,
		ProductType:         r.ProductType,
		Subcategory:         r.Subcategory,
		Name:                strings.TrimSpace(r.Name),
		Description:         r.Description,
		PriceOriginal:       r.PriceOriginal,
		DiscountPercent:     r.DiscountPercent,
		CanBeSoldSeparately: r.CanBeSoldSeparately,
		IsNew:               r.IsNew,
		Tags:                r.Tags,
		Images:              imageInputs(r.Images),
		SetItems:            items,
	}, nil
}

func imageInputs(images []productImageRequest) []catalog.ImageInput {
	out := make([]catalog.ImageInput, 0, len(images))
	for _, img := range images {
		out = append(out, catalog.ImageInput{
			URL:          strings.TrimSpace(img.URL),
			DisplayOrder: img.DisplayOrder,
		})
	}
	return out
}

// AdminCatalog lists every product, including those hidden from the storefront.
func AdminCatalog(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		products, err := svc.Catalog(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// AdminCreateProduct stores a new product or set.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AdminUpdateProduct replaces a stored product with the payload.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminDeleteProduct removes a product; set children survive detached.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		result, err := svc.DeleteProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

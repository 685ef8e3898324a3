package catalog

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// PlaceholderImageURL is served when a product has no images at all.
const PlaceholderImageURL = "/images/placeholder-product.png"

// ProductDTO is the denormalized product payload returned to clients. The
// final price and main image are derived here so no caller ever computes
// them independently.
type ProductDTO struct {
	ID                  uuid.UUID       `json:"id"`
	Category            string          `json:"category"`
	ProductType         *string         `json:"product_type,omitempty"`
	Subcategory         *string         `json:"subcategory,omitempty"`
	Name                string          `json:"name"`
	Description         *string         `json:"description,omitempty"`
	PriceOriginal       decimal.Decimal `json:"price_original"`
	PriceFinal          decimal.Decimal `json:"price_final"`
	DiscountPercent     float64         `json:"discount_percent"`
	IsSet               bool            `json:"is_set"`
	PartOfSet           *uuid.UUID      `json:"part_of_set,omitempty"`
	CanBeSoldSeparately bool            `json:"can_be_sold_separately"`
	IsNew               bool            `json:"is_new"`
	Tags                []string        `json:"tags"`
	MainImageURL        string          `json:"main_image_url"`
	Images              []ImageDTO      `json:"images"`
	SetItems            []SetItemDTO    `json:"set_items,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ImageDTO is one ordered product or set item image.
type ImageDTO struct {
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
}

// SetItemDTO is one constituent line of a set product.
type SetItemDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	MainImageURL   string          `json:"main_image_url"`
	Images         []ImageDTO      `json:"images"`
	ChildProductID *uuid.UUID      `json:"child_product_id,omitempty"`
	Position       int             `json:"position"`
}

// ProductDetailDTO bundles a product with the related records the detail
// page shows alongside it. Children and ParentSet are best-effort: a fetch
// failure leaves them empty rather than failing the whole detail.
type ProductDetailDTO struct {
	Product   ProductDTO   `json:"product"`
	Children  []ProductDTO `json:"children,omitempty"`
	ParentSet *ProductDTO  `json:"parent_set,omitempty"`
}

// FloorSamplePageDTO is one page of the floor sample listing. TotalCount is
// -1 when the count lookup failed and HasMore fell back to the full-page
// heuristic.
type FloorSamplePageDTO struct {
	Products   []ProductDTO `json:"products"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	HasMore    bool         `json:"has_more"`
}

// SubcategoryDTO is one curated classification label.
type SubcategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductType string    `json:"product_type"`
	Name        string    `json:"name"`
}

// MutationOutcome tells the client whether a write landed or the store
// rolled it back.
type MutationOutcome string

const (
	MutationConfirmed  MutationOutcome = "confirmed"
	MutationRolledBack MutationOutcome = "rolled_back"
)

// MutationResult is returned by every catalog write.
type MutationResult struct {
	Outcome MutationOutcome `json:"outcome"`
	Product *ProductDTO     `json:"product,omitempty"`
}

// ComputeFinalPrice derives the selling price from the original price and
// the discount percentage, rounded to cents.
func ComputeFinalPrice(original decimal.Decimal, discountPercent float64) decimal.Decimal {
	if discountPercent <= 0 {
		return original.Round(2)
	}
	remaining := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(discountPercent))
	return original.Mul(remaining).Div(decimal.NewFromInt(100)).Round(2)
}

// NewProductDTO builds the denormalized payload from the persisted model.
// Images are sorted by display order and the first one becomes the main
// image, with a placeholder when none exist.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:                  product.ID,
		Category:            string(product.Category),
		ProductType:         product.ProductType,
		Subcategory:         product.Subcategory,
		Name:                product.Name,
		Description:         product.Description,
		PriceOriginal:       product.PriceOriginal,
		PriceFinal:          ComputeFinalPrice(product.PriceOriginal, product.DiscountPercent),
		DiscountPercent:     product.DiscountPercent,
		IsSet:               product.IsSet,
		PartOfSet:           product.PartOfSet,
		CanBeSoldSeparately: product.CanBeSoldSeparately,
		IsNew:               product.IsNew,
		Tags:                append([]string{}, product.Tags...),
		Images:              newImageDTOs(product.Images),
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
	dto.MainImageURL = mainImageURL(dto.Images)

	if len(product.SetItems) > 0 {
		items := append([]models.SetItem{}, product.SetItems...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
		dto.SetItems = make([]SetItemDTO, 0, len(items))
		for _, item := range items {
			dto.SetItems = append(dto.SetItems, newSetItemDTO(item))
		}
	}

	return dto
}

func newSetItemDTO(item models.SetItem) SetItemDTO {
	dto := SetItemDTO{
		ID:             item.ID,
		Name:           item.Name,
		Price:          item.Price,
		Images:         newSetItemImageDTOs(item.Images),
		ChildProductID: item.ChildProductID,
		Position:       item.Position,
	}
	dto.MainImageURL = mainImageURL(dto.Images)
	// legacy single image column still wins over the placeholder
	if dto.MainImageURL == PlaceholderImageURL && item.ImageURL != nil && *item.ImageURL != "" {
		dto.MainImageURL = *item.ImageURL
	}
	return dto
}

func newImageDTOs(images []models.ProductImage) []ImageDTO {
	sorted := append([]models.ProductImage{}, images...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DisplayOrder < sorted[j].DisplayOrder })
	out := make([]ImageDTO, 0, len(sorted))
	for _, img := range sorted {
		out = append(out, ImageDTO{URL: img.URL, DisplayOrder: img.DisplayOrder})
	}
	return out
}

func newSetItemImageDTOs(images []models.SetItemImage) []ImageDTO {
	sorted := append([]models.SetItemImage{}, images...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DisplayOrder < sorted[j].DisplayOrder })
	out := make([]ImageDTO, 0, len(sorted))
	for _, img := range sorted {
		out = append(out, ImageDTO{URL: img.URL, DisplayOrder: img.DisplayOrder})
	}
	return out
}

func mainImageURL(images []ImageDTO) string {
	if len(images) == 0 {
		return PlaceholderImageURL
	}
	return images[0].URL
}

// NewProductDTOs maps a slice of models preserving order.
func NewProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out
}

package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		original string
		discount float64
		want     string
	}{
		{"no discount", "100.00", 0, "100"},
		{"half off", "100.00", 50, "50"},
		{"typical retail discount", "1299.99", 15, "1104.99"},
		{"full discount", "499.00", 100, "0"},
		{"fractional percent rounds to cents", "33.33", 33.33, "22.22"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			original := decimal.RequireFromString(tc.original)
			got := ComputeFinalPrice(original, tc.discount)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"ComputeFinalPrice(%s, %v) = %s, want %s", tc.original, tc.discount, got, tc.want)
		})
	}
}

func TestNewProductDTOImageOrdering(t *testing.T) {
	product := &models.Product{
		ID:            uuid.New(),
		Category:      enums.ProductCategoryFloorSample,
		Name:          "Leather Sofa",
		PriceOriginal: decimal.RequireFromString("899.00"),
		Images: []models.ProductImage{
			{URL: "https://cdn.example.com/sofa-side.jpg", DisplayOrder: 2},
			{URL: "https://cdn.example.com/sofa-front.jpg", DisplayOrder: 0},
			{URL: "https://cdn.example.com/sofa-back.jpg", DisplayOrder: 1},
		},
	}

	dto := NewProductDTO(product)

	require.Len(t, dto.Images, 3)
	assert.Equal(t, "https://cdn.example.com/sofa-front.jpg", dto.Images[0].URL)
	assert.Equal(t, "https://cdn.example.com/sofa-back.jpg", dto.Images[1].URL)
	assert.Equal(t, "https://cdn.example.com/sofa-side.jpg", dto.Images[2].URL)
	assert.Equal(t, "https://cdn.example.com/sofa-front.jpg", dto.MainImageURL,
		"main image must be the first by display order")
}

func TestNewProductDTOPlaceholderWhenNoImages(t *testing.T) {
	product := &models.Product{
		ID:            uuid.New(),
		Category:      enums.ProductCategoryOnlineInventory,
		Name:          "Oak Shelf",
		PriceOriginal: decimal.RequireFromString("120.00"),
	}

	dto := NewProductDTO(product)

	assert.Empty(t, dto.Images)
	assert.Equal(t, PlaceholderImageURL, dto.MainImageURL)
}

func TestNewProductDTODerivesFinalPrice(t *testing.T) {
	product := &models.Product{
		ID:              uuid.New(),
		Category:        enums.ProductCategoryFloorSample,
		Name:            "Dining Table",
		PriceOriginal:   decimal.RequireFromString("1000.00"),
		DiscountPercent: 25,
	}

	dto := NewProductDTO(product)

	assert.True(t, dto.PriceFinal.Equal(decimal.RequireFromString("750")),
		"price_final = %s", dto.PriceFinal)
	assert.True(t, dto.PriceOriginal.Equal(decimal.RequireFromString("1000.00")))
}

func TestNewProductDTOSetItemsSortedByPosition(t *testing.T) {
	childID := uuid.New()
	legacyURL := "https://cdn.example.com/legacy-chair.jpg"
	product := &models.Product{
		ID:            uuid.New(),
		Category:      enums.ProductCategoryFloorSample,
		Name:          "Dining Set",
		PriceOriginal: decimal.RequireFromString("2400.00"),
		IsSet:         true,
		SetItems: []models.SetItem{
			{
				Name:     "Chair",
				Price:    decimal.RequireFromString("200.00"),
				Position: 1,
				ImageURL: &legacyURL,
			},
			{
				Name:           "Table",
				Price:          decimal.RequireFromString("1600.00"),
				Position:       0,
				ChildProductID: &childID,
				Images: []models.SetItemImage{
					{URL: "https://cdn.example.com/table-detail.jpg", DisplayOrder: 1},
					{URL: "https://cdn.example.com/table-main.jpg", DisplayOrder: 0},
				},
			},
		},
	}

	dto := NewProductDTO(product)

	require.Len(t, dto.SetItems, 2)
	assert.Equal(t, "Table", dto.SetItems[0].Name)
	assert.Equal(t, "Chair", dto.SetItems[1].Name)
	assert.Equal(t, "https://cdn.example.com/table-main.jpg", dto.SetItems[0].MainImageURL)
	assert.Equal(t, childID, *dto.SetItems[0].ChildProductID)
	assert.Equal(t, legacyURL, dto.SetItems[1].MainImageURL,
		"legacy single image should stand in when no image rows exist")
}

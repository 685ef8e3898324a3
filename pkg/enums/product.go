package enums

import "fmt"

// ProductCategory separates in-store floor samples from order-in inventory.
type ProductCategory string

const (
	ProductCategoryFloorSample     ProductCategory = "floor_sample"
	ProductCategoryOnlineInventory ProductCategory = "online_inventory"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFloorSample,
	ProductCategoryOnlineInventory,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// MerchTag represents the merchandising badges a product can carry.
type MerchTag string

const (
	MerchTagNew       MerchTag = "new"
	MerchTagSale      MerchTag = "sale"
	MerchTagStaffPick MerchTag = "staff_pick"
)

var validMerchTags = []MerchTag{
	MerchTagNew,
	MerchTagSale,
	MerchTagStaffPick,
}

// String implements fmt.Stringer.
func (t MerchTag) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known MerchTag.
func (t MerchTag) IsValid() bool {
	for _, candidate := range validMerchTags {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseMerchTag converts raw input into a MerchTag.
func ParseMerchTag(value string) (MerchTag, error) {
	for _, candidate := range validMerchTags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid merch tag %q", value)
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	"github.com/mobelhaus/showroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together catalog persistence helpers.
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

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Images").
		Preload("SetItems").
		Preload("SetItems.Images")
}

// ListAll loads every product with associations, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.preloaded(ctx).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListPublic loads the storefront catalog: everything a shopper may buy on
// its own. Children that cannot be sold separately stay hidden inside
// their set.
func (r *Repository) ListPublic(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.preloaded(ctx).
		Where("can_be_sold_separately = ?", true).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads one product with associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.preloaded(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListChildren loads the standalone products generated for a set's items.
func (r *Repository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.preloaded(ctx).
		Where("part_of_set = ?", parentID).
		Order("created_at ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListFloorSamplePage loads one page of floor samples, sets first, then
// newest first.
func (r *Repository) ListFloorSamplePage(ctx context.Context, p pagination.Params) ([]models.Product, error) {
	var products []models.Product
	if err := r.preloaded(ctx).
		Where("category = ?", enums.ProductCategoryFloorSample).
		Order("is_set DESC").
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountFloorSamples returns the total number of floor sample products.
func (r *Repository) CountFloorSamples(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category = ?", enums.ProductCategoryFloorSample).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListSubcategoryValues returns the distinct non-null subcategory values
// present on floor sample products, alphabetically, optionally narrowed
// to one product type.
func (r *Repository) ListSubcategoryValues(ctx context.Context, productType *string) ([]string, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("subcategory").
		Where("category = ?", enums.ProductCategoryFloorSample).
		Where("subcategory IS NOT NULL").
		Order("subcategory ASC")
	if productType != nil && *productType != "" {
		q = q.Where("product_type = ?", *productType)
	}
	var values []string
	if err := q.Pluck("subcategory", &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// CreateProduct inserts the product row only; associations are written
// through the replace helpers.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Images", "SetItems").Create(product).Error
}

// UpdateProduct saves the product row only.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Images", "SetItems").Save(product).Error
}

// DeleteProduct removes the product row. Images and set items go with it
// via ON DELETE CASCADE.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ReplaceImages replaces all images for the product.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return tx.Create(&images).Error
}

// ReplaceSetItems replaces all set items (and their images) for the product.
func (r *Repository) ReplaceSetItems(ctx context.Context, productID uuid.UUID, items []models.SetItem) error {
	tx := r.db.WithContext(ctx)

	var itemIDs []uuid.UUID
	if err := tx.Model(&models.SetItem{}).
		Where("product_id = ?", productID).
		Pluck("id", &itemIDs).Error; err != nil {
		return err
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("set_item_id IN ?", itemIDs).Delete(&models.SetItemImage{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.SetItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// ListSetItems loads the set items stored for a product, in position order.
func (r *Repository) ListSetItems(ctx context.Context, productID uuid.UUID) ([]models.SetItem, error) {
	var items []models.SetItem
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DetachChildren clears part_of_set on every child of the parent without
// deleting the child rows.
func (r *Repository) DetachChildren(ctx context.Context, parentID uuid.UUID, keep []uuid.UUID) error {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("part_of_set = ?", parentID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Update("part_of_set", nil).Error
}

// DetachFromSetItems clears the child link on any set item that references
// the product. The set rows themselves stay.
func (r *Repository) DetachFromSetItems(ctx context.Context, childID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.SetItem{}).
		Where("child_product_id = ?", childID).
		Update("child_product_id", nil).Error
}

// SubcategoryRepository persists the curated classification labels.
type SubcategoryRepository struct {
	db *gorm.DB
}

// NewSubcategoryRepository builds the repository.
func NewSubcategoryRepository(db *gorm.DB) *SubcategoryRepository {
	return &SubcategoryRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *SubcategoryRepository) WithTx(tx *gorm.DB) *SubcategoryRepository {
	return &SubcategoryRepository{db: tx}
}

// List returns subcategories, optionally filtered by product type.
func (r *SubcategoryRepository) List(ctx context.Context, productType *string) ([]models.Subcategory, error) {
	q := r.db.WithContext(ctx).Order("product_type ASC, name ASC")
	if productType != nil && *productType != "" {
		q = q.Where("product_type = ?", *productType)
	}
	var subcategories []models.Subcategory
	if err := q.Find(&subcategories).Error; err != nil {
		return nil, err
	}
	return subcategories, nil
}

// Create inserts a subcategory.
func (r *SubcategoryRepository) Create(ctx context.Context, sub *models.Subcategory) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Delete removes a subcategory by id.
func (r *SubcategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Subcategory{}, "id = ?", id).Error
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImageInput is one ordered image URL on a save payload.
type ImageInput struct {
	URL          string
	DisplayOrder int
}

// SetItemInput is one constituent line on a set save payload. A nil
// ChildProductID asks the service to generate the standalone child.
type SetItemInput struct {
	Name           string
	Price          decimal.Decimal
	Images         []ImageInput
	ChildProductID *uuid.UUID
}

// ProductInput is the full save payload. Updates replace the stored record
// wholesale; the admin form always submits the complete product.
type ProductInput struct {
	Category            enums.ProductCategory
	ProductType         *string
	Subcategory         *string
	Name                string
	Description         *string
	PriceOriginal       decimal.Decimal
	DiscountPercent     float64
	CanBeSoldSeparately *bool
	IsNew               bool
	Tags                []string
	Images              []ImageInput
	SetItems            []SetItemInput
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !in.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if in.PriceOriginal.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_original cannot be negative")
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
	}
	for _, tag := range in.Tags {
		if !enums.MerchTag(tag).IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown tag %q", tag))
		}
	}
	for _, item := range in.SetItems {
		if item.Name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "set item name is required")
		}
		if item.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "set item price cannot be negative")
		}
	}
	return nil
}

func (in ProductInput) soldSeparately() bool {
	if in.CanBeSoldSeparately == nil {
		return true
	}
	return *in.CanBeSoldSeparately
}

func imageModels(productID uuid.UUID, images []ImageInput) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(images))
	for _, img := range images {
		out = append(out, models.ProductImage{
			ID:           uuid.New(),
			ProductID:    productID,
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		})
	}
	return out
}

// CreateProduct stores a new product. For a set, every unlinked item gets a
// generated standalone child product so it can be sold on its own.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*MutationResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product := &models.Product{
			ID:                  uuid.New(),
			Category:            input.Category,
			ProductType:         input.ProductType,
			Subcategory:         input.Subcategory,
			Name:                input.Name,
			Description:         input.Description,
			PriceOriginal:       input.PriceOriginal,
			DiscountPercent:     input.DiscountPercent,
			IsSet:               len(input.SetItems) > 0,
			CanBeSoldSeparately: input.soldSeparately(),
			IsNew:               input.IsNew,
			Tags:                pq.StringArray(input.Tags),
		}
		if err := repo.CreateProduct(ctx, product); err != nil {
			return err
		}
		if err := repo.ReplaceImages(ctx, product.ID, imageModels(product.ID, input.Images)); err != nil {
			return err
		}
		if err := s.syncSetItems(ctx, repo, product, input.SetItems); err != nil {
			return err
		}

		stored, err := repo.FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		created = stored
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			return nil, err
		}
		return s.mutationFailed(ctx, err, "saving product failed")
	}

	s.invalidateAll(ctx)
	return &MutationResult{Outcome: MutationConfirmed, Product: NewProductDTO(created)}, nil
}

// UpdateProduct replaces the stored product with the payload. Set items are
// synchronized: removed items detach their children, new items generate
// them, kept items push name and price down to the child.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*MutationResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		// a product inside a set can never become a set itself
		if existing.PartOfSet != nil && len(input.SetItems) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "a product that belongs to a set cannot contain set items")
		}

		existing.Category = input.Category
		existing.ProductType = input.ProductType
		existing.Subcategory = input.Subcategory
		existing.Name = input.Name
		existing.Description = input.Description
		existing.PriceOriginal = input.PriceOriginal
		existing.DiscountPercent = input.DiscountPercent
		existing.IsSet = len(input.SetItems) > 0
		existing.CanBeSoldSeparately = input.soldSeparately()
		existing.IsNew = input.IsNew
		existing.Tags = pq.StringArray(input.Tags)

		if err := repo.UpdateProduct(ctx, existing); err != nil {
			return err
		}
		if err := repo.ReplaceImages(ctx, existing.ID, imageModels(existing.ID, input.Images)); err != nil {
			return err
		}
		if err := s.syncSetItems(ctx, repo, existing, input.SetItems); err != nil {
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
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			return nil, err
		}
		return s.mutationFailed(ctx, err, "saving product failed")
	}

	s.invalidateAll(ctx)
	return &MutationResult{Outcome: MutationConfirmed, Product: NewProductDTO(updated)}, nil
}

// DeleteProduct removes one product. Caches are cleared optimistically
// before the store delete. Children of a deleted set survive as standalone
// products; set items pointing at a deleted child keep their row with the
// link cleared.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) (*MutationResult, error) {
	// optimistic removal so a slow store never serves the ghost entry
	s.invalidateAll(ctx)

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}
		if err := repo.DetachChildren(ctx, id, nil); err != nil {
			return err
		}
		if err := repo.DetachFromSetItems(ctx, id); err != nil {
			return err
		}
		return repo.DeleteProduct(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return s.mutationFailed(ctx, err, "deleting product failed")
	}

	s.invalidateAll(ctx)
	return &MutationResult{Outcome: MutationConfirmed}, nil
}

// syncSetItems replaces the set items of a product and keeps the generated
// child products in step: unlinked items get a fresh child, linked items
// update the child in place, and children of dropped items are detached,
// never deleted.
func (s *service) syncSetItems(ctx context.Context, repo *Repository, parent *models.Product, items []SetItemInput) error {
	if len(items) == 0 {
		if err := repo.DetachChildren(ctx, parent.ID, nil); err != nil {
			return err
		}
		return repo.ReplaceSetItems(ctx, parent.ID, nil)
	}

	rows := make([]models.SetItem, 0, len(items))
	keep := make([]uuid.UUID, 0, len(items))

	for position, item := range items {
		childID, err := s.syncChild(ctx, repo, parent, item)
		if err != nil {
			return err
		}
		keep = append(keep, childID)

		row := models.SetItem{
			ID:             uuid.New(),
			ProductID:      parent.ID,
			Name:           item.Name,
			Price:          item.Price,
			ChildProductID: &childID,
			Position:       position,
		}
		for _, img := range item.Images {
			row.Images = append(row.Images, models.SetItemImage{
				ID:           uuid.New(),
				SetItemID:    row.ID,
				URL:          img.URL,
				DisplayOrder: img.DisplayOrder,
			})
		}
		rows = append(rows, row)
	}

	if err := repo.DetachChildren(ctx, parent.ID, keep); err != nil {
		return err
	}
	return repo.ReplaceSetItems(ctx, parent.ID, rows)
}

// syncChild creates or refreshes the standalone product behind a set item
// and returns its id.
func (s *service) syncChild(ctx context.Context, repo *Repository, parent *models.Product, item SetItemInput) (uuid.UUID, error) {
	if item.ChildProductID == nil {
		child := &models.Product{
			ID:                  uuid.New(),
			Category:            parent.Category,
			ProductType:         parent.ProductType,
			Subcategory:         parent.Subcategory,
			Name:                item.Name,
			PriceOriginal:       item.Price,
			DiscountPercent:     0,
			IsSet:               false,
			PartOfSet:           &parent.ID,
			CanBeSoldSeparately: true,
			Tags:                pq.StringArray{},
		}
		if err := repo.CreateProduct(ctx, child); err != nil {
			return uuid.Nil, err
		}
		if err := repo.ReplaceImages(ctx, child.ID, imageModels(child.ID, item.Images)); err != nil {
			return uuid.Nil, err
		}
		return child.ID, nil
	}

	child, err := repo.FindByID(ctx, *item.ChildProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "linked child product does not exist")
		}
		return uuid.Nil, err
	}
	if child.IsSet {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "a set cannot contain another set")
	}
	if child.PartOfSet != nil && *child.PartOfSet != parent.ID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "linked child product already belongs to another set")
	}

	child.Name = item.Name
	child.PriceOriginal = item.Price
	child.PartOfSet = &parent.ID
	if err := repo.UpdateProduct(ctx, child); err != nil {
		return uuid.Nil, err
	}
	if len(item.Images) > 0 {
		if err := repo.ReplaceImages(ctx, child.ID, imageModels(child.ID, item.Images)); err != nil {
			return uuid.Nil, err
		}
	}
	return child.ID, nil
}

// mutationFailed reports a rolled back write: the caller gets a coded error
// carrying the outcome, caches are flushed, and the catalog is refetched so
// the client reconciles against what the store actually holds.
func (s *service) mutationFailed(ctx context.Context, err error, message string) (*MutationResult, error) {
	s.logg.Error(ctx, message, err)
	s.invalidateAll(ctx)

	if _, refetchErr := s.loadCatalog(ctx); refetchErr != nil {
		s.logg.Warn(ctx, "reconciliation refetch failed")
	}

	wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, message).
		WithDetails(map[string]any{"outcome": MutationRolledBack})
	return &MutationResult{Outcome: MutationRolledBack}, wrapped
}

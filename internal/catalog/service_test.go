package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mobelhaus/showroom-backend/pkg/db"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCatalogTestDB(t)
	svc, err := NewService(
		NewRepository(conn),
		NewSubcategoryRepository(conn),
		db.NewWithConn(conn),
		nil,
		testCatalogConfig(),
		nil,
		testLogger(),
	)
	require.NoError(t, err)
	return svc, conn
}

func simpleInput(name string) ProductInput {
	return ProductInput{
		Category:      enums.ProductCategoryFloorSample,
		Name:          name,
		PriceOriginal: decimal.RequireFromString("100.00"),
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := t.Context()

	t.Run("missing name", func(t *testing.T) {
		input := simpleInput("")
		_, err := svc.CreateProduct(ctx, input)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("invalid category", func(t *testing.T) {
		input := simpleInput("Chair")
		input.Category = enums.ProductCategory("warehouse")
		_, err := svc.CreateProduct(ctx, input)
		require.Error(t, err)
	})

	t.Run("discount out of range", func(t *testing.T) {
		input := simpleInput("Chair")
		input.DiscountPercent = 101
		_, err := svc.CreateProduct(ctx, input)
		require.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		input := simpleInput("Chair")
		input.PriceOriginal = decimal.RequireFromString("-1")
		_, err := svc.CreateProduct(ctx, input)
		require.Error(t, err)
	})

	t.Run("unknown tag", func(t *testing.T) {
		input := simpleInput("Chair")
		input.Tags = []string{"sale", "clearance"}
		_, err := svc.CreateProduct(ctx, input)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("known tags pass", func(t *testing.T) {
		input := simpleInput("Tagged Chair")
		input.Tags = []string{"new", "sale", "staff_pick"}
		result, err := svc.CreateProduct(ctx, input)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"new", "sale", "staff_pick"}, result.Product.Tags)
	})
}

func TestCreateSetGeneratesChildren(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	input := simpleInput("Dining Set")
	input.ProductType = strPtr("dining")
	input.Subcategory = strPtr("six-seater")
	input.DiscountPercent = 10
	input.SetItems = []SetItemInput{
		{Name: "Table", Price: decimal.RequireFromString("600.00"), Images: []ImageInput{{URL: "https://cdn.example.com/t.jpg"}}},
		{Name: "Chair", Price: decimal.RequireFromString("150.00")},
	}

	result, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, MutationConfirmed, result.Outcome)
	require.NotNil(t, result.Product)
	assert.True(t, result.Product.IsSet, "a product with set items is a set")
	require.Len(t, result.Product.SetItems, 2)

	for _, item := range result.Product.SetItems {
		require.NotNil(t, item.ChildProductID, "every set item gets a standalone child")

		var child models.Product
		require.NoError(t, conn.Preload("Images").First(&child, "id = ?", *item.ChildProductID).Error)
		assert.Equal(t, enums.ProductCategoryFloorSample, child.Category, "child inherits the category")
		require.NotNil(t, child.ProductType)
		assert.Equal(t, "dining", *child.ProductType)
		assert.Equal(t, item.Name, child.Name)
		assert.True(t, child.PriceOriginal.Equal(item.Price), "child price equals the set item price")
		assert.Zero(t, child.DiscountPercent, "children start without a discount")
		require.NotNil(t, child.PartOfSet)
		assert.Equal(t, result.Product.ID, *child.PartOfSet)
		assert.True(t, child.CanBeSoldSeparately)
	}
}

func TestUpdateSetDetachesRemovedChildren(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	input := simpleInput("Bedroom Set")
	input.SetItems = []SetItemInput{
		{Name: "Bed", Price: decimal.RequireFromString("800.00")},
		{Name: "Nightstand", Price: decimal.RequireFromString("120.00")},
	}
	created, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)

	keptChildID := created.Product.SetItems[0].ChildProductID
	removedChildID := created.Product.SetItems[1].ChildProductID

	update := simpleInput("Bedroom Set")
	update.SetItems = []SetItemInput{
		{Name: "King Bed", Price: decimal.RequireFromString("900.00"), ChildProductID: keptChildID},
	}
	updated, err := svc.UpdateProduct(ctx, created.Product.ID, update)
	require.NoError(t, err)
	assert.Equal(t, MutationConfirmed, updated.Outcome)
	require.Len(t, updated.Product.SetItems, 1)

	// the kept child follows the item's new name and price
	var kept models.Product
	require.NoError(t, conn.First(&kept, "id = ?", *keptChildID).Error)
	assert.Equal(t, "King Bed", kept.Name)
	assert.True(t, kept.PriceOriginal.Equal(decimal.RequireFromString("900.00")))
	require.NotNil(t, kept.PartOfSet)

	// the removed child survives as a standalone product
	var removed models.Product
	require.NoError(t, conn.First(&removed, "id = ?", *removedChildID).Error)
	assert.Nil(t, removed.PartOfSet, "removed set items detach their child, never delete it")
}

func TestUpdateEmptySetItemsClearsSetFlag(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	input := simpleInput("Sofa Set")
	input.SetItems = []SetItemInput{{Name: "Sofa", Price: decimal.RequireFromString("500.00")}}
	created, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	childID := created.Product.SetItems[0].ChildProductID

	update := simpleInput("Sofa Set")
	updated, err := svc.UpdateProduct(ctx, created.Product.ID, update)
	require.NoError(t, err)
	assert.False(t, updated.Product.IsSet, "no set items means not a set")
	assert.Empty(t, updated.Product.SetItems)

	var child models.Product
	require.NoError(t, conn.First(&child, "id = ?", *childID).Error)
	assert.Nil(t, child.PartOfSet)
}

func TestSetNestingForbidden(t *testing.T) {
	svc, _ := setupService(t)
	ctx := t.Context()

	parent := simpleInput("Parent Set")
	parent.SetItems = []SetItemInput{{Name: "Piece", Price: decimal.RequireFromString("50.00")}}
	created, err := svc.CreateProduct(ctx, parent)
	require.NoError(t, err)
	childID := created.Product.SetItems[0].ChildProductID

	t.Run("child cannot become a set", func(t *testing.T) {
		update := simpleInput("Piece")
		update.SetItems = []SetItemInput{{Name: "Sub-piece", Price: decimal.RequireFromString("10.00")}}
		_, err := svc.UpdateProduct(ctx, *childID, update)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("a set cannot link another set as child", func(t *testing.T) {
		other := simpleInput("Other Set")
		other.SetItems = []SetItemInput{{Name: "Other Piece", Price: decimal.RequireFromString("20.00")}}
		otherCreated, err := svc.CreateProduct(ctx, other)
		require.NoError(t, err)

		nested := simpleInput("Nesting Attempt")
		nested.SetItems = []SetItemInput{{
			Name:           "The Whole Other Set",
			Price:          decimal.RequireFromString("20.00"),
			ChildProductID: &otherCreated.Product.ID,
		}}
		_, err = svc.CreateProduct(ctx, nested)
		require.Error(t, err)
	})

	t.Run("a child of one set cannot join another", func(t *testing.T) {
		poacher := simpleInput("Poaching Set")
		poacher.SetItems = []SetItemInput{{
			Name:           "Stolen Piece",
			Price:          decimal.RequireFromString("50.00"),
			ChildProductID: childID,
		}}
		_, err := svc.CreateProduct(ctx, poacher)
		require.Error(t, err)
	})
}

func TestDeleteSetKeepsChildren(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	input := simpleInput("Office Set")
	input.SetItems = []SetItemInput{{Name: "Desk", Price: decimal.RequireFromString("300.00")}}
	created, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	childID := created.Product.SetItems[0].ChildProductID

	result, err := svc.DeleteProduct(ctx, created.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, MutationConfirmed, result.Outcome)

	var gone int64
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", created.Product.ID).Count(&gone).Error)
	assert.Zero(t, gone)

	var child models.Product
	require.NoError(t, conn.First(&child, "id = ?", *childID).Error)
	assert.Nil(t, child.PartOfSet, "children outlive their deleted set")
}

func TestDeleteChildKeepsSetItemRow(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	input := simpleInput("Lounge Set")
	input.SetItems = []SetItemInput{{Name: "Armchair", Price: decimal.RequireFromString("250.00")}}
	created, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	childID := created.Product.SetItems[0].ChildProductID

	_, err = svc.DeleteProduct(ctx, *childID)
	require.NoError(t, err)

	var items []models.SetItem
	require.NoError(t, conn.Where("product_id = ?", created.Product.ID).Find(&items).Error)
	require.Len(t, items, 1, "the set item row must survive the child's deletion")
	assert.Nil(t, items[0].ChildProductID)
}

func TestDeleteMissingProduct(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.DeleteProduct(t.Context(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCatalogCachingIsIdempotent(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	mustCreateTestProduct(t, conn, nil)

	first, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// a write behind the service's back is invisible while the TTL runs
	mustCreateTestProduct(t, conn, nil)
	second, err := svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 1, "cached reads return the identical payload")
}

func TestMutationInvalidatesCatalogCache(t *testing.T) {
	svc, _ := setupService(t)
	ctx := t.Context()

	_, err := svc.CreateProduct(ctx, simpleInput("First"))
	require.NoError(t, err)

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	_, err = svc.CreateProduct(ctx, simpleInput("Second"))
	require.NoError(t, err)

	catalog, err = svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 2, "a confirmed mutation flushes every cache region")
}

func TestFloorSamplePageFlow(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	for i := 0; i < 25; i++ {
		mustCreateTestProduct(t, conn, nil)
	}

	page1, err := svc.FloorSamplePage(ctx, 1, 12)
	require.NoError(t, err)
	assert.Len(t, page1.Products, 12)
	assert.Equal(t, int64(25), page1.TotalCount)
	assert.True(t, page1.HasMore)

	page3, err := svc.FloorSamplePage(ctx, 3, 12)
	require.NoError(t, err)
	assert.Len(t, page3.Products, 1)
	assert.False(t, page3.HasMore)

	// invalid paging inputs are normalized, not rejected
	normalized, err := svc.FloorSamplePage(ctx, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, normalized.Page)
	assert.Equal(t, 12, normalized.PageSize)
}

func TestProductDetailIncludesRelations(t *testing.T) {
	svc, _ := setupService(t)
	ctx := t.Context()

	input := simpleInput("Patio Set")
	input.SetItems = []SetItemInput{{Name: "Bench", Price: decimal.RequireFromString("180.00")}}
	created, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	childID := created.Product.SetItems[0].ChildProductID

	detail, err := svc.Product(ctx, created.Product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Children, 1)
	assert.Equal(t, *childID, detail.Children[0].ID)

	childDetail, err := svc.Product(ctx, *childID)
	require.NoError(t, err)
	require.NotNil(t, childDetail.ParentSet)
	assert.Equal(t, created.Product.ID, childDetail.ParentSet.ID)
}

func TestProductNotFound(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Product(t.Context(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestMutationFailureRecovery(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	_, err := svc.CreateProduct(ctx, simpleInput("Survivor"))
	require.NoError(t, err)

	_, err = svc.Catalog(ctx)
	require.NoError(t, err)

	// break the set items table so the next set save fails mid-transaction
	require.NoError(t, conn.Exec("DROP TABLE set_items").Error)

	input := simpleInput("Doomed Set")
	input.SetItems = []SetItemInput{{Name: "Piece", Price: decimal.RequireFromString("10.00")}}
	result, err := svc.CreateProduct(ctx, input)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, MutationRolledBack, result.Outcome)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())

	// the transaction rolled back: no half-written parent or children
	var count int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "only the pre-existing product remains")

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 1, "reconciliation refetch restored a consistent view")
}

func TestFeaturedSelection(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	mustCreateTestProduct(t, conn, func(p *models.Product) { p.Name = "Plain" })
	mustCreateTestProduct(t, conn, func(p *models.Product) { p.Name = "Fresh"; p.IsNew = true })
	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.Name = "Staff Pick"
		p.Tags = pq.StringArray{"staff_pick"}
	})
	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.Name = "On Sale"
		p.Tags = pq.StringArray{"sale"}
		p.DiscountPercent = 20
	})
	// a discount alone is not a merchandising badge
	mustCreateTestProduct(t, conn, func(p *models.Product) { p.Name = "Quiet Markdown"; p.DiscountPercent = 30 })

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 3)
	for _, p := range featured {
		assert.NotEqual(t, "Plain", p.Name)
		assert.NotEqual(t, "Quiet Markdown", p.Name)
	}
}

func TestFeaturedIncludesTaggedWithoutDiscount(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.Name = "Curated Armchair"
		p.Tags = pq.StringArray{"staff_pick"}
		p.IsNew = false
		p.DiscountPercent = 0
	})

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Curated Armchair", featured[0].Name)
}

func TestFeaturedCap(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	for i := 0; i < 10; i++ {
		mustCreateTestProduct(t, conn, func(p *models.Product) { p.IsNew = true })
	}

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 6)
}

func TestSubcategoriesDerivedFromFloorSamples(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.ProductType = strPtr("dining")
		p.Subcategory = strPtr("oak")
	})
	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.ProductType = strPtr("dining")
		p.Subcategory = strPtr("birch")
	})
	// duplicates collapse, other types and null subcategories stay out
	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.ProductType = strPtr("dining")
		p.Subcategory = strPtr("oak")
	})
	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.ProductType = strPtr("bedroom")
		p.Subcategory = strPtr("walnut")
	})
	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.ProductType = strPtr("dining")
	})
	mustCreateTestProduct(t, conn, func(p *models.Product) {
		p.Category = enums.ProductCategoryOnlineInventory
		p.ProductType = strPtr("dining")
		p.Subcategory = strPtr("teak")
	})

	dining := "dining"
	values, err := svc.Subcategories(ctx, &dining)
	require.NoError(t, err)
	assert.Equal(t, []string{"birch", "oak"}, values)

	all, err := svc.Subcategories(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"birch", "oak", "walnut"}, all)
}

func TestDegradedProductDetailNotCached(t *testing.T) {
	svc, conn := setupService(t)
	ctx := t.Context()

	input := simpleInput("Hall Set")
	input.SetItems = []SetItemInput{{Name: "Mirror", Price: decimal.RequireFromString("90.00")}}
	created, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	childID := created.Product.SetItems[0].ChildProductID

	// break the parent lookup without touching the child row
	var parent models.Product
	require.NoError(t, conn.First(&parent, "id = ?", created.Product.ID).Error)
	require.NoError(t, conn.Exec("DELETE FROM products WHERE id = ?", created.Product.ID).Error)

	degraded, err := svc.Product(ctx, *childID)
	require.NoError(t, err)
	assert.Nil(t, degraded.ParentSet, "a failed parent lookup degrades the detail")

	// once the parent is back, the next read must not serve the degraded payload
	require.NoError(t, conn.Create(&parent).Error)
	healed, err := svc.Product(ctx, *childID)
	require.NoError(t, err)
	require.NotNil(t, healed.ParentSet)
	assert.Equal(t, created.Product.ID, healed.ParentSet.ID)
}

func strPtr(s string) *string { return &s }

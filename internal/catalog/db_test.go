package catalog

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/config"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category TEXT NOT NULL,
  product_type TEXT,
  subcategory TEXT,
  name TEXT NOT NULL,
  description TEXT,
  price_original NUMERIC NOT NULL DEFAULT 0,
  discount_percent NUMERIC NOT NULL DEFAULT 0,
  is_set INTEGER NOT NULL DEFAULT 0,
  part_of_set TEXT,
  can_be_sold_separately INTEGER NOT NULL DEFAULT 1,
  is_new INTEGER NOT NULL DEFAULT 0,
  tags TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	productImages := `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	setItems := `
CREATE TABLE IF NOT EXISTS set_items (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  image_url TEXT,
  child_product_id TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	setItemImages := `
CREATE TABLE IF NOT EXISTS set_item_images (
  id TEXT PRIMARY KEY,
  set_item_id TEXT NOT NULL,
  url TEXT NOT NULL,
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	subcategories := `
CREATE TABLE IF NOT EXISTS subcategories (
  id TEXT PRIMARY KEY,
  product_type TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME
);`

	for _, stmt := range []string{products, productImages, setItems, setItemImages, subcategories} {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
}

func testCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		CatalogTTL:      5 * time.Minute,
		ProductTTL:      10 * time.Minute,
		PageTTL:         5 * time.Minute,
		RetryAttempts:   2,
		RetryBaseDelay:  time.Millisecond, // keeps failing-path tests fast
		DefaultPageSize: 12,
		MaxPageSize:     100,
		FeaturedSize:    6,
	}
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:                  uuid.New(),
		Category:            enums.ProductCategoryFloorSample,
		Name:                fmt.Sprintf("Product %s", uuid.NewString()[:8]),
		PriceOriginal:       decimal.RequireFromString("100.00"),
		CanBeSoldSeparately: true,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

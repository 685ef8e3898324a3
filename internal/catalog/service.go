package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/config"
	"github.com/mobelhaus/showroom-backend/pkg/db"
	"github.com/mobelhaus/showroom-backend/pkg/db/models"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
	"github.com/mobelhaus/showroom-backend/pkg/metrics"
	"github.com/mobelhaus/showroom-backend/pkg/pagination"
	"github.com/mobelhaus/showroom-backend/pkg/retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	regionCatalog         = "catalog"
	regionPublicCatalog   = "public_catalog"
	regionProduct         = "product"
	regionFloorSamplePage = "floor_sample_page"
	regionFloorSampleCnt  = "floor_sample_count"

	catalogKey = "all"
	countKey   = "total"
)

// Service exposes catalog reads and writes.
type Service interface {
	Catalog(ctx context.Context) ([]ProductDTO, error)
	PublicCatalog(ctx context.Context) ([]ProductDTO, error)
	FloorSamples(ctx context.Context) ([]ProductDTO, error)
	OnlineInventory(ctx context.Context) ([]ProductDTO, error)
	Featured(ctx context.Context) ([]ProductDTO, error)
	Product(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error)
	FloorSamplePage(ctx context.Context, page, pageSize int) (*FloorSamplePageDTO, error)
	Subcategories(ctx context.Context, productType *string) ([]string, error)
	CuratedSubcategories(ctx context.Context, productType *string) ([]SubcategoryDTO, error)
	CreateSubcategory(ctx context.Context, input SubcategoryInput) (*SubcategoryDTO, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
	Warm(ctx context.Context) error

	CreateProduct(ctx context.Context, input ProductInput) (*MutationResult, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*MutationResult, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*MutationResult, error)
}

// SubcategoryInput is the validated payload to create a subcategory.
type SubcategoryInput struct {
	ProductType string
	Name        string
}

type service struct {
	repo         *Repository
	subRepo      *SubcategoryRepository
	dbClient     *db.Client
	logg         *logger.Logger
	cfg          config.CatalogConfig
	cacheMetrics *metrics.CacheMetrics

	catalogCache *Region[[]ProductDTO]
	publicCache  *Region[[]ProductDTO]
	productCache *Region[ProductDetailDTO]
	pageCache    *Region[FloorSamplePageDTO]
	countCache   *Region[int64]

	flight singleflight.Group
}

// NewService constructs the catalog service with its cache regions. The
// mirror may be nil; page and count regions then live in memory only.
func NewService(
	repo *Repository,
	subRepo *SubcategoryRepository,
	dbClient *db.Client,
	mirror Mirror,
	cfg config.CatalogConfig,
	cacheMetrics *metrics.CacheMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if subRepo == nil {
		return nil, fmt.Errorf("subcategory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	s := &service{
		repo:         repo,
		subRepo:      subRepo,
		dbClient:     dbClient,
		logg:         logg,
		cfg:          cfg,
		cacheMetrics: cacheMetrics,
		catalogCache: NewRegion[[]ProductDTO](regionCatalog, cfg.CatalogTTL, cacheMetrics),
		publicCache:  NewRegion[[]ProductDTO](regionPublicCatalog, cfg.CatalogTTL, cacheMetrics),
		productCache: NewRegion[ProductDetailDTO](regionProduct, cfg.ProductTTL, cacheMetrics),
		pageCache:    NewRegion[FloorSamplePageDTO](regionFloorSamplePage, cfg.PageTTL, cacheMetrics),
		countCache:   NewRegion[int64](regionFloorSampleCnt, cfg.PageTTL, cacheMetrics),
	}
	if mirror != nil {
		s.pageCache.WithMirror(mirror)
		s.countCache.WithMirror(mirror)
	}
	return s, nil
}

func (s *service) retryConfig(ctx context.Context, operation string) retry.Config {
	return retry.Config{
		Attempts:  s.cfg.RetryAttempts,
		BaseDelay: s.cfg.RetryBaseDelay,
		OnRetry: func(attempt int, err error) {
			s.cacheMetrics.IncRetry(operation)
			retryCtx := s.logg.WithFields(ctx, map[string]any{"operation": operation, "attempt": attempt})
			s.logg.Warn(retryCtx, "retrying catalog read")
		},
	}
}

// Catalog returns every product, admin view included, from cache or store.
func (s *service) Catalog(ctx context.Context) ([]ProductDTO, error) {
	if cached, ok := s.catalogCache.Get(ctx, catalogKey); ok {
		return cached, nil
	}
	return s.loadCatalog(ctx)
}

func (s *service) loadCatalog(ctx context.Context) ([]ProductDTO, error) {
	products, err := retry.Do(ctx, s.retryConfig(ctx, "fetch_catalog"), func(ctx context.Context) ([]models.Product, error) {
		return s.repo.ListAll(ctx)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog")
	}
	dtos := NewProductDTOs(products)
	s.catalogCache.Set(ctx, catalogKey, dtos)
	return dtos, nil
}

// PublicCatalog returns the storefront catalog. Concurrent cold reads are
// collapsed into one store fetch.
func (s *service) PublicCatalog(ctx context.Context) ([]ProductDTO, error) {
	if cached, ok := s.publicCache.Get(ctx, catalogKey); ok {
		return cached, nil
	}
	result, err, _ := s.flight.Do(regionPublicCatalog, func() (any, error) {
		if cached, ok := s.publicCache.Get(ctx, catalogKey); ok {
			return cached, nil
		}
		return s.loadPublicCatalog(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]ProductDTO), nil
}

func (s *service) loadPublicCatalog(ctx context.Context) ([]ProductDTO, error) {
	products, err := retry.Do(ctx, s.retryConfig(ctx, "fetch_public_catalog"), func(ctx context.Context) ([]models.Product, error) {
		return s.repo.ListPublic(ctx)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading public catalog")
	}
	dtos := NewProductDTOs(products)
	s.publicCache.Set(ctx, catalogKey, dtos)
	return dtos, nil
}

// FloorSamples returns the public floor sample view.
func (s *service) FloorSamples(ctx context.Context) ([]ProductDTO, error) {
	return s.publicByCategory(ctx, enums.ProductCategoryFloorSample)
}

// OnlineInventory returns the public online inventory view.
func (s *service) OnlineInventory(ctx context.Context) ([]ProductDTO, error) {
	return s.publicByCategory(ctx, enums.ProductCategoryOnlineInventory)
}

func (s *service) publicByCategory(ctx context.Context, category enums.ProductCategory) ([]ProductDTO, error) {
	all, err := s.PublicCatalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductDTO, 0, len(all))
	for _, p := range all {
		if p.Category == string(category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Featured returns the highlight strip: products carrying a merchandising
// tag or flagged as new arrivals, in catalog order, capped by configuration.
func (s *service) Featured(ctx context.Context) ([]ProductDTO, error) {
	all, err := s.PublicCatalog(ctx)
	if err != nil {
		return nil, err
	}
	limit := s.cfg.FeaturedSize
	if limit <= 0 {
		limit = 6
	}
	out := make([]ProductDTO, 0, limit)
	for _, p := range all {
		if !p.IsNew && !hasMerchTag(p.Tags) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func hasMerchTag(tags []string) bool {
	for _, tag := range tags {
		if enums.MerchTag(tag).IsValid() {
			return true
		}
	}
	return false
}

// Product returns the detail payload for one product. Related records
// (set children, parent set) are fetched concurrently and are best-effort.
func (s *service) Product(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error) {
	key := id.String()
	if cached, ok := s.productCache.Get(ctx, key); ok {
		return &cached, nil
	}

	product, err := retry.Do(ctx, s.retryConfig(ctx, "fetch_product"), func(ctx context.Context) (*models.Product, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	detail := ProductDetailDTO{Product: *NewProductDTO(product)}

	var (
		children     []ProductDTO
		childrenErr  bool
		parentSet    *ProductDTO
		parentSetErr bool
	)
	g, gctx := errgroup.WithContext(ctx)
	if product.IsSet {
		g.Go(func() error {
			rows, err := s.repo.ListChildren(gctx, product.ID)
			if err != nil {
				s.logg.Warn(s.logg.WithField(gctx, "product_id", product.ID.String()), "loading set children failed")
				childrenErr = true
				return nil
			}
			children = NewProductDTOs(rows)
			return nil
		})
	}
	if product.PartOfSet != nil {
		parentID := *product.PartOfSet
		g.Go(func() error {
			parent, err := s.repo.FindByID(gctx, parentID)
			if err != nil {
				s.logg.Warn(s.logg.WithField(gctx, "parent_id", parentID.String()), "loading parent set failed")
				parentSetErr = true
				return nil
			}
			parentSet = NewProductDTO(parent)
			return nil
		})
	}
	_ = g.Wait()
	detail.Children = children
	detail.ParentSet = parentSet

	// a payload missing its relations must not stick for the whole TTL
	if !childrenErr && !parentSetErr {
		s.productCache.Set(ctx, key, detail)
	}
	return &detail, nil
}

// FloorSamplePage returns one page of floor samples. The total count is
// fetched concurrently and never fails the page: when unknown it is
// reported as -1 and HasMore falls back to the full-page heuristic.
func (s *service) FloorSamplePage(ctx context.Context, page, pageSize int) (*FloorSamplePageDTO, error) {
	p := pagination.Normalize(page, pageSize, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if cached, ok := s.pageCache.Get(ctx, p.Key()); ok {
		return &cached, nil
	}
	return s.loadFloorSamplePage(ctx, p)
}

func (s *service) loadFloorSamplePage(ctx context.Context, p pagination.Params) (*FloorSamplePageDTO, error) {
	countCh := make(chan int64, 1)
	go func() {
		countCh <- s.floorSampleCount(ctx)
	}()

	products, err := retry.Do(ctx, s.retryConfig(ctx, "fetch_floor_sample_page"), func(ctx context.Context) ([]models.Product, error) {
		return s.repo.ListFloorSamplePage(ctx, p)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading floor samples")
	}

	total := <-countCh
	dto := FloorSamplePageDTO{
		Products:   NewProductDTOs(products),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
	}
	if total >= 0 {
		dto.HasMore = pagination.HasMore(p, total)
	} else {
		dto.HasMore = pagination.HasMoreHeuristic(p, len(products))
	}

	s.pageCache.Set(ctx, p.Key(), dto)
	return &dto, nil
}

// floorSampleCount returns the cached or freshly counted floor sample
// total, or -1 when the store is unreachable. A fresh count is pushed into
// every cached page so stale totals do not linger for a full TTL.
func (s *service) floorSampleCount(ctx context.Context) int64 {
	if cached, ok := s.countCache.Get(ctx, countKey); ok {
		return cached
	}
	count, err := retry.Do(ctx, s.retryConfig(ctx, "fetch_floor_sample_count"), func(ctx context.Context) (int64, error) {
		return s.repo.CountFloorSamples(ctx)
	})
	if err != nil {
		s.logg.Warn(ctx, "counting floor samples failed")
		return -1
	}
	s.countCache.Set(ctx, countKey, count)
	s.pageCache.Update(ctx, func(_ string, page *FloorSamplePageDTO) {
		page.TotalCount = count
		page.HasMore = pagination.HasMore(pagination.Params{Page: page.Page, PageSize: page.PageSize}, count)
	})
	return count
}

// Subcategories enumerates the distinct subcategory values carried by
// floor sample products, alphabetically, optionally narrowed to one
// product type.
func (s *service) Subcategories(ctx context.Context, productType *string) ([]string, error) {
	values, err := retry.Do(ctx, s.retryConfig(ctx, "fetch_subcategories"), func(ctx context.Context) ([]string, error) {
		return s.repo.ListSubcategoryValues(ctx, productType)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading subcategories")
	}
	return values, nil
}

// CuratedSubcategories lists the back-office label rows, optionally per
// product type. Unlike Subcategories this shows labels no product uses
// yet, which is what the admin form needs.
func (s *service) CuratedSubcategories(ctx context.Context, productType *string) ([]SubcategoryDTO, error) {
	rows, err := retry.Do(ctx, s.retryConfig(ctx, "fetch_curated_subcategories"), func(ctx context.Context) ([]models.Subcategory, error) {
		return s.subRepo.List(ctx, productType)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading subcategories")
	}
	out := make([]SubcategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SubcategoryDTO{ID: row.ID, ProductType: row.ProductType, Name: row.Name})
	}
	return out, nil
}

// CreateSubcategory stores a new label.
func (s *service) CreateSubcategory(ctx context.Context, input SubcategoryInput) (*SubcategoryDTO, error) {
	if input.ProductType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_type is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	sub := &models.Subcategory{ID: uuid.New(), ProductType: input.ProductType, Name: input.Name}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating subcategory")
	}
	return &SubcategoryDTO{ID: sub.ID, ProductType: sub.ProductType, Name: sub.Name}, nil
}

// DeleteSubcategory removes a label. Products keep their stored string.
func (s *service) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	if err := s.subRepo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting subcategory")
	}
	return nil
}

// Warm refreshes the hot regions regardless of their current state so
// shoppers rarely pay a cold fetch.
func (s *service) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.loadCatalog(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.loadPublicCatalog(gctx)
		return err
	})
	g.Go(func() error {
		p := pagination.Normalize(1, s.cfg.DefaultPageSize, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
		_, err := s.loadFloorSamplePage(gctx, p)
		return err
	})
	return g.Wait()
}

// invalidateAll drops every cache region. Mutations call this on success
// and on failure; the next read rebuilds from the store.
func (s *service) invalidateAll(ctx context.Context) {
	if err := s.catalogCache.InvalidateAll(ctx); err != nil {
		s.logg.Warn(ctx, "invalidating catalog cache failed")
	}
	if err := s.publicCache.InvalidateAll(ctx); err != nil {
		s.logg.Warn(ctx, "invalidating public catalog cache failed")
	}
	if err := s.productCache.InvalidateAll(ctx); err != nil {
		s.logg.Warn(ctx, "invalidating product cache failed")
	}
	if err := s.pageCache.InvalidateAll(ctx); err != nil {
		s.logg.Warn(ctx, "invalidating floor sample pages failed")
	}
	if err := s.countCache.InvalidateAll(ctx); err != nil {
		s.logg.Warn(ctx, "invalidating floor sample count failed")
	}
}

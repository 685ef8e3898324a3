package controllers

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/internal/catalog"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

// stubCatalogService records calls and returns canned values. Methods not
// exercised by a test return empty results.
type stubCatalogService struct {
	catalogCalls int
	createCalls  int
	updateCalls  int
	deleteCalls  int

	lastInput    catalog.ProductInput
	lastID       uuid.UUID
	lastPage     int
	lastPageSize int

	detail *catalog.ProductDetailDTO
	page   *catalog.FloorSamplePageDTO
	result *catalog.MutationResult
	err    error
}

func (s *stubCatalogService) Catalog(context.Context) ([]catalog.ProductDTO, error) {
	s.catalogCalls++
	return []catalog.ProductDTO{}, s.err
}

func (s *stubCatalogService) PublicCatalog(context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, s.err
}

func (s *stubCatalogService) FloorSamples(context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, s.err
}

func (s *stubCatalogService) OnlineInventory(context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, s.err
}

func (s *stubCatalogService) Featured(context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, s.err
}

func (s *stubCatalogService) Product(_ context.Context, id uuid.UUID) (*catalog.ProductDetailDTO, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	if s.detail != nil {
		return s.detail, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubCatalogService) FloorSamplePage(_ context.Context, page, pageSize int) (*catalog.FloorSamplePageDTO, error) {
	s.lastPage = page
	s.lastPageSize = pageSize
	if s.err != nil {
		return nil, s.err
	}
	if s.page != nil {
		return s.page, nil
	}
	return &catalog.FloorSamplePageDTO{Page: page, PageSize: pageSize}, nil
}

func (s *stubCatalogService) Subcategories(context.Context, *string) ([]string, error) {
	return []string{}, s.err
}

func (s *stubCatalogService) CuratedSubcategories(context.Context, *string) ([]catalog.SubcategoryDTO, error) {
	return []catalog.SubcategoryDTO{}, s.err
}

func (s *stubCatalogService) CreateSubcategory(_ context.Context, input catalog.SubcategoryInput) (*catalog.SubcategoryDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.SubcategoryDTO{ID: uuid.New(), ProductType: input.ProductType, Name: input.Name}, nil
}

func (s *stubCatalogService) DeleteSubcategory(_ context.Context, id uuid.UUID) error {
	s.lastID = id
	return s.err
}

func (s *stubCatalogService) Warm(context.Context) error { return s.err }

func (s *stubCatalogService) CreateProduct(_ context.Context, input catalog.ProductInput) (*catalog.MutationResult, error) {
	s.createCalls++
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &catalog.MutationResult{Outcome: catalog.MutationConfirmed}, nil
}

func (s *stubCatalogService) UpdateProduct(_ context.Context, id uuid.UUID, input catalog.ProductInput) (*catalog.MutationResult, error) {
	s.updateCalls++
	s.lastID = id
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.MutationResult{Outcome: catalog.MutationConfirmed}, nil
}

func (s *stubCatalogService) DeleteProduct(_ context.Context, id uuid.UUID) (*catalog.MutationResult, error) {
	s.deleteCalls++
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.MutationResult{Outcome: catalog.MutationConfirmed}, nil
}

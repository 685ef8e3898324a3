package cron

import (
	"context"
	"fmt"

	"github.com/mobelhaus/showroom-backend/pkg/logger"
)

// catalogWarmer is the slice of the catalog service this job needs.
type catalogWarmer interface {
	Warm(ctx context.Context) error
}

// CatalogWarmJobParams configure the catalog warm job.
type CatalogWarmJobParams struct {
	Logger  *logger.Logger
	Catalog catalogWarmer
}

// NewCatalogWarmJob builds the job that refreshes the catalog cache
// regions before their TTLs lapse, so showroom reads stay warm.
func NewCatalogWarmJob(params CatalogWarmJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &catalogWarmJob{
		logg:    params.Logger,
		catalog: params.Catalog,
	}, nil
}

type catalogWarmJob struct {
	logg    *logger.Logger
	catalog catalogWarmer
}

func (j *catalogWarmJob) Name() string { return "catalog-warm" }

func (j *catalogWarmJob) Run(ctx context.Context) error {
	if err := j.catalog.Warm(ctx); err != nil {
		return fmt.Errorf("warm catalog cache: %w", err)
	}
	j.logg.Info(ctx, "catalog cache warmed")
	return nil
}

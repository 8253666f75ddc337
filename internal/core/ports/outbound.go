package ports

import (
	"context"

	"github.com/skillbase/competency-search/internal/core/domain"
)

// EntityRepository is the vector-store seam: persistence plus vector search.
// GetEntity reports absence as (nil, nil); the service layer turns that into
// its not-found error.
type EntityRepository interface {
	CreateEntity(ctx context.Context, model domain.CreateEntity) (*domain.Entity, error)
	GetEntity(ctx context.Context, identifier string) (*domain.Entity, error)
	UpdateEntity(ctx context.Context, model domain.UpdateEntity) (*domain.Entity, error)
	DeleteEntity(ctx context.Context, identifier string) error
	SearchByVector(ctx context.Context, vector domain.QueryVector, vectorName domain.VectorName, filters []domain.Filter, top int) ([]domain.SearchResult, error)
	SearchHybrid(ctx context.Context, dense domain.DenseVector, sparse domain.SparseVector, filters []domain.Filter, top int) ([]domain.SearchResult, error)
}

// DenseEncoder embeds text into the dense vector space.
type DenseEncoder interface {
	Encode(ctx context.Context, text string) (domain.DenseVector, error)
}

// SparseEncoder embeds text into the sparse vector space.
type SparseEncoder interface {
	Encode(ctx context.Context, text string) (domain.SparseVector, error)
}

// ImportQueue moves expanded import jobs from the importer to the worker.
type ImportQueue interface {
	PublishImportJob(ctx context.Context, job domain.ImportJob) error
	SubscribeImportJobs(ctx context.Context, handler func(context.Context, domain.ImportJob) error) error
}

// ImportAuditStore persists the outcome of processed import jobs.
type ImportAuditStore interface {
	RecordImport(ctx context.Context, record domain.ImportRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.ImportRecord, error)
}

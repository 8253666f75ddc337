package ports

import (
	"context"

	"github.com/skillbase/competency-search/internal/core/domain"
)

// EntityService is the inbound contract for entity lifecycle and search
// orchestration.
type EntityService interface {
	CreateEntity(ctx context.Context, competency domain.Competency, text string) (*domain.Entity, error)
	GetEntity(ctx context.Context, identifier string) (*domain.Entity, error)
	UpdateEntity(ctx context.Context, identifier string, competency domain.Competency, text string) (*domain.Entity, error)
	DeleteEntity(ctx context.Context, identifier string) error
	SearchByText(ctx context.Context, text string, filters []domain.Filter, top int, searchType domain.SearchType) ([]domain.SearchResult, error)
}

// CompetencyImporter is the inbound contract for mapping and queueing raw
// provider records.
type CompetencyImporter interface {
	ImportOne(ctx context.Context, input domain.ImportInput) (int, error)
	ImportBatch(ctx context.Context, inputs []domain.ImportInput) (int, error)
}

// ImportProcessor is the inbound contract for the asynchronous worker side.
type ImportProcessor interface {
	Process(ctx context.Context, job domain.ImportJob) error
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/core/ports"
)

// EntityUseCase orchestrates entity lifecycle and search: it validates input,
// requests embeddings, decides vector reuse on update and dispatches searches
// to the repository. It holds no state across calls.
type EntityUseCase struct {
	repo   ports.EntityRepository
	dense  ports.DenseEncoder
	sparse ports.SparseEncoder
}

func NewEntityUseCase(
	repo ports.EntityRepository,
	dense ports.DenseEncoder,
	sparse ports.SparseEncoder,
) *EntityUseCase {
	return &EntityUseCase{
		repo:   repo,
		dense:  dense,
		sparse: sparse,
	}
}

func (uc *EntityUseCase) CreateEntity(ctx context.Context, competency domain.Competency, text string) (*domain.Entity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", domain.ErrValidation)
	}

	denseVector, sparseVector, err := uc.encodeBoth(ctx, text)
	if err != nil {
		return nil, err
	}

	entity, err := uc.repo.CreateEntity(ctx, domain.CreateEntity{
		Competency:   competency,
		DenseVector:  denseVector,
		SparseVector: sparseVector,
	})
	if err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}
	return entity, nil
}

func (uc *EntityUseCase) GetEntity(ctx context.Context, identifier string) (*domain.Entity, error) {
	entity, err := uc.repo.GetEntity(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, identifier)
	}
	return entity, nil
}

// UpdateEntity replaces an entity's competency and, when the text changed,
// its vectors. An empty text, or a text equal to the stored indexed text,
// reuses the stored vectors without touching the encoders.
func (uc *EntityUseCase) UpdateEntity(ctx context.Context, identifier string, competency domain.Competency, text string) (*domain.Entity, error) {
	current, err := uc.GetEntity(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var denseVector domain.DenseVector
	var sparseVector domain.SparseVector
	if text == "" || current.Competency.IndexedText == text {
		if current.DenseVector != nil {
			denseVector = *current.DenseVector
		}
		if current.SparseVector != nil {
			sparseVector = *current.SparseVector
		}
	} else {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: text cannot be empty", domain.ErrValidation)
		}
		denseVector, sparseVector, err = uc.encodeBoth(ctx, trimmed)
		if err != nil {
			return nil, err
		}
	}

	entity, err := uc.repo.UpdateEntity(ctx, domain.UpdateEntity{
		Identifier:   identifier,
		Competency:   competency,
		DenseVector:  denseVector,
		SparseVector: sparseVector,
	})
	if err != nil {
		return nil, fmt.Errorf("update entity: %w", err)
	}
	return entity, nil
}

// DeleteEntity confirms existence first, so an unknown identifier surfaces as
// not-found rather than a silent no-op. The check is not transactional
// against concurrent deletes; the store delete itself is idempotent.
func (uc *EntityUseCase) DeleteEntity(ctx context.Context, identifier string) error {
	if _, err := uc.GetEntity(ctx, identifier); err != nil {
		return err
	}
	if err := uc.repo.DeleteEntity(ctx, identifier); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}

func (uc *EntityUseCase) SearchByText(
	ctx context.Context,
	text string,
	filters []domain.Filter,
	top int,
	searchType domain.SearchType,
) ([]domain.SearchResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: searched text cannot be empty", domain.ErrValidation)
	}

	switch searchType {
	case domain.SearchSemantic:
		denseVector, err := uc.dense.Encode(ctx, text)
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbedding, "dense encoding error", err)
		}
		return uc.repo.SearchByVector(ctx, domain.QueryVector{Dense: &denseVector}, domain.VectorDense, filters, top)

	case domain.SearchSparse:
		sparseVector, err := uc.sparse.Encode(ctx, text)
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbedding, "sparse encoding error", err)
		}
		return uc.repo.SearchByVector(ctx, domain.QueryVector{Sparse: &sparseVector}, domain.VectorSparse, filters, top)

	case domain.SearchHybrid:
		denseVector, sparseVector, err := uc.encodeBoth(ctx, text)
		if err != nil {
			return nil, err
		}
		return uc.repo.SearchHybrid(ctx, denseVector, sparseVector, filters, top)

	default:
		return nil, fmt.Errorf("%w: unsupported search type: %s", domain.ErrValidation, searchType)
	}
}

// encodeBoth runs the two encoders sequentially; a failure in either aborts
// before any store write happens.
func (uc *EntityUseCase) encodeBoth(ctx context.Context, text string) (domain.DenseVector, domain.SparseVector, error) {
	denseVector, err := uc.dense.Encode(ctx, text)
	if err != nil {
		return domain.DenseVector{}, domain.SparseVector{}, domain.WrapError(domain.ErrEmbedding, "encoding error", err)
	}
	sparseVector, err := uc.sparse.Encode(ctx, text)
	if err != nil {
		return domain.DenseVector{}, domain.SparseVector{}, domain.WrapError(domain.ErrEmbedding, "encoding error", err)
	}
	return denseVector, sparseVector, nil
}

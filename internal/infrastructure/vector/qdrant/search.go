package qdrant

import (
	"context"
	"fmt"
	"net/http"

	"github.com/skillbase/competency-search/internal/core/domain"
)

func (r *Repository) SearchByVector(
	ctx context.Context,
	vector domain.QueryVector,
	vectorName domain.VectorName,
	filters []domain.Filter,
	top int,
) ([]domain.SearchResult, error) {
	filter, err := buildFilter(filters)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"limit":        top,
		"with_payload": true,
	}
	switch vectorName {
	case domain.VectorDense:
		if vector.Dense == nil {
			return nil, domain.WrapError(domain.ErrRepository, "search", fmt.Errorf("dense vector missing"))
		}
		body["query"] = vector.Dense.Values
		body["using"] = r.denseName
	case domain.VectorSparse:
		if vector.Sparse == nil {
			return nil, domain.WrapError(domain.ErrRepository, "search", fmt.Errorf("sparse vector missing"))
		}
		body["query"] = sparseQuery(*vector.Sparse)
		body["using"] = r.sparseName
	default:
		return nil, domain.WrapError(domain.ErrRepository, "search", fmt.Errorf("unsupported vector name: %s", vectorName))
	}
	if filter != nil {
		body["filter"] = filter
	}

	return r.queryPoints(ctx, body, "vector search")
}

// SearchHybrid issues one dense and one sparse prefetch under the same filter
// set and lets Qdrant fuse the two ranked lists with reciprocal-rank fusion.
func (r *Repository) SearchHybrid(
	ctx context.Context,
	dense domain.DenseVector,
	sparse domain.SparseVector,
	filters []domain.Filter,
	top int,
) ([]domain.SearchResult, error) {
	filter, err := buildFilter(filters)
	if err != nil {
		return nil, err
	}

	densePrefetch := map[string]any{
		"query": dense.Values,
		"using": r.denseName,
		"limit": top,
	}
	sparsePrefetch := map[string]any{
		"query": sparseQuery(sparse),
		"using": r.sparseName,
		"limit": top,
	}
	if filter != nil {
		densePrefetch["filter"] = filter
		sparsePrefetch["filter"] = filter
	}

	body := map[string]any{
		"prefetch":     []map[string]any{densePrefetch, sparsePrefetch},
		"query":        map[string]any{"fusion": "rrf"},
		"limit":        top,
		"with_payload": true,
	}
	if filter != nil {
		body["filter"] = filter
	}

	return r.queryPoints(ctx, body, "hybrid search")
}

func (r *Repository) queryPoints(ctx context.Context, body map[string]any, operation string) ([]domain.SearchResult, error) {
	var out struct {
		Result struct {
			Points []retrievedPoint `json:"points"`
		} `json:"result"`
	}
	if err := r.doJSON(ctx, http.MethodPost, r.collectionURL("/points/query"), body, &out, operation); err != nil {
		return nil, domain.WrapError(domain.ErrRepository, operation, err)
	}

	results := make([]domain.SearchResult, 0, len(out.Result.Points))
	for _, point := range out.Result.Points {
		competency, err := point.competency()
		if err != nil {
			return nil, domain.WrapError(domain.ErrRepository, operation, err)
		}
		results = append(results, domain.SearchResult{
			Entity: domain.Entity{
				Identifier: point.identifier(),
				Competency: competency,
			},
			Score: point.Score,
		})
	}
	return results, nil
}

func sparseQuery(sparse domain.SparseVector) map[string]any {
	return map[string]any{
		"indices": sparse.Indices,
		"values":  sparse.Values,
	}
}

// Package qdrant implements the entity repository over the Qdrant HTTP API,
// with one named dense and one named sparse vector per point.
package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillbase/competency-search/internal/core/domain"
)

type Repository struct {
	baseURL    string
	collection string
	denseName  string
	sparseName string
	httpClient *http.Client
}

func New(baseURL, collection, denseName, sparseName string) *Repository {
	return &Repository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		denseName:  denseName,
		sparseName: sparseName,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// EnsureCollection creates the collection with the configured named vector
// spaces if it does not exist yet. Qdrant answers 409 when it already does.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize int, distance string) error {
	body := map[string]any{
		"vectors": map[string]any{
			r.denseName: map[string]any{
				"size":     vectorSize,
				"distance": distance,
			},
		},
		"sparse_vectors": map[string]any{
			r.sparseName: map[string]any{},
		},
	}

	resp, err := r.do(ctx, http.MethodPut, r.collectionURL(""), body, "ensure collection")
	if err != nil {
		if resp == http.StatusConflict {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) CreateEntity(ctx context.Context, model domain.CreateEntity) (*domain.Entity, error) {
	identifier := uuid.NewString()
	if err := r.upsertPoint(ctx, identifier, model.Competency, model.DenseVector, model.SparseVector); err != nil {
		return nil, domain.WrapError(domain.ErrRepository, "create entity", err)
	}
	return &domain.Entity{
		Identifier: identifier,
		Competency: model.Competency,
	}, nil
}

func (r *Repository) GetEntity(ctx context.Context, identifier string) (*domain.Entity, error) {
	body := map[string]any{
		"ids":          []string{identifier},
		"with_payload": true,
		"with_vector":  true,
	}

	var out struct {
		Result []retrievedPoint `json:"result"`
	}
	if err := r.doJSON(ctx, http.MethodPost, r.collectionURL("/points"), body, &out, "retrieve entity"); err != nil {
		return nil, domain.WrapError(domain.ErrRepository, fmt.Sprintf("get entity %s", identifier), err)
	}
	if len(out.Result) == 0 {
		return nil, nil
	}

	point := out.Result[0]
	competency, err := point.competency()
	if err != nil {
		return nil, domain.WrapError(domain.ErrRepository, fmt.Sprintf("get entity %s", identifier), err)
	}
	dense, sparse, err := point.vectors(r.denseName, r.sparseName)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRepository, fmt.Sprintf("get entity %s", identifier), err)
	}

	return &domain.Entity{
		Identifier:   identifier,
		Competency:   competency,
		DenseVector:  dense,
		SparseVector: sparse,
	}, nil
}

func (r *Repository) UpdateEntity(ctx context.Context, model domain.UpdateEntity) (*domain.Entity, error) {
	if err := r.upsertPoint(ctx, model.Identifier, model.Competency, model.DenseVector, model.SparseVector); err != nil {
		return nil, domain.WrapError(domain.ErrRepository, fmt.Sprintf("update entity %s", model.Identifier), err)
	}
	return &domain.Entity{
		Identifier: model.Identifier,
		Competency: model.Competency,
	}, nil
}

// DeleteEntity removes the point. Qdrant's delete is idempotent, so a point
// that vanished between the service's existence check and this call is a
// no-op rather than an error.
func (r *Repository) DeleteEntity(ctx context.Context, identifier string) error {
	body := map[string]any{
		"points": []string{identifier},
	}
	if _, err := r.do(ctx, http.MethodPost, r.collectionURL("/points/delete?wait=true"), body, "delete entity"); err != nil {
		return domain.WrapError(domain.ErrRepository, fmt.Sprintf("delete entity %s", identifier), err)
	}
	return nil
}

func (r *Repository) upsertPoint(
	ctx context.Context,
	identifier string,
	competency domain.Competency,
	dense domain.DenseVector,
	sparse domain.SparseVector,
) error {
	payload, err := competencyPayload(competency)
	if err != nil {
		return err
	}

	body := map[string]any{
		"points": []map[string]any{
			{
				"id": identifier,
				"vector": map[string]any{
					r.denseName: dense.Values,
					r.sparseName: map[string]any{
						"indices": sparse.Indices,
						"values":  sparse.Values,
					},
				},
				"payload": payload,
			},
		},
	}

	_, err = r.do(ctx, http.MethodPut, r.collectionURL("/points?wait=true"), body, "upsert point")
	return err
}

// competencyPayload round-trips the competency through JSON so the stored
// payload matches the wire shape (optional fields omitted when empty).
func competencyPayload(competency domain.Competency) (map[string]any, error) {
	buf, err := json.Marshal(competency)
	if err != nil {
		return nil, fmt.Errorf("encode competency payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf, &payload); err != nil {
		return nil, fmt.Errorf("decode competency payload: %w", err)
	}
	return payload, nil
}

type retrievedPoint struct {
	ID      any                        `json:"id"`
	Score   float64                    `json:"score"`
	Payload json.RawMessage            `json:"payload"`
	Vector  map[string]json.RawMessage `json:"vector"`
}

func (p retrievedPoint) identifier() string {
	switch v := p.ID.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (p retrievedPoint) competency() (domain.Competency, error) {
	var competency domain.Competency
	if len(p.Payload) == 0 {
		return competency, nil
	}
	if err := json.Unmarshal(p.Payload, &competency); err != nil {
		return competency, fmt.Errorf("decode competency payload: %w", err)
	}
	return competency, nil
}

func (p retrievedPoint) vectors(denseName, sparseName string) (*domain.DenseVector, *domain.SparseVector, error) {
	var dense *domain.DenseVector
	if raw, ok := p.Vector[denseName]; ok {
		var values []float32
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, nil, fmt.Errorf("decode dense vector: %w", err)
		}
		if len(values) > 0 {
			dense = &domain.DenseVector{Values: values}
		}
	}

	var sparse *domain.SparseVector
	if raw, ok := p.Vector[sparseName]; ok {
		var decoded struct {
			Indices []uint32  `json:"indices"`
			Values  []float32 `json:"values"`
		}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, nil, fmt.Errorf("decode sparse vector: %w", err)
		}
		if len(decoded.Indices) > 0 {
			sparse = &domain.SparseVector{Indices: decoded.Indices, Values: decoded.Values}
		}
	}

	return dense, sparse, nil
}

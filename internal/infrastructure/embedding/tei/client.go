// Package tei talks to text-embeddings-inference servers. Dense and sparse
// models run as separate deployments, so each encoder gets its own client.
package tei

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

type embedRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

type sparseValue struct {
	Index uint32  `json:"index"`
	Value float32 `json:"value"`
}

// DenseEncoder embeds text via the /embed endpoint.
type DenseEncoder struct {
	client *Client
}

func NewDenseEncoder(client *Client) *DenseEncoder {
	return &DenseEncoder{client: client}
}

func (e *DenseEncoder) Encode(ctx context.Context, text string) (domain.DenseVector, error) {
	var response [][]float32
	err := e.client.call(ctx, "embed_dense", func(ctx context.Context) error {
		response = nil
		return e.client.postJSON(ctx, "/embed", embedRequest{Inputs: []string{text}, Truncate: true}, &response, "embed_dense")
	})
	if err != nil {
		return domain.DenseVector{}, err
	}
	if len(response) == 0 || len(response[0]) == 0 {
		return domain.DenseVector{}, fmt.Errorf("empty dense embedding result")
	}
	return domain.DenseVector{Values: response[0]}, nil
}

// SparseEncoder embeds text via the /embed_sparse endpoint.
type SparseEncoder struct {
	client *Client
}

func NewSparseEncoder(client *Client) *SparseEncoder {
	return &SparseEncoder{client: client}
}

func (e *SparseEncoder) Encode(ctx context.Context, text string) (domain.SparseVector, error) {
	var response [][]sparseValue
	err := e.client.call(ctx, "embed_sparse", func(ctx context.Context) error {
		response = nil
		return e.client.postJSON(ctx, "/embed_sparse", embedRequest{Inputs: []string{text}, Truncate: true}, &response, "embed_sparse")
	})
	if err != nil {
		return domain.SparseVector{}, err
	}
	if len(response) == 0 {
		return domain.SparseVector{}, fmt.Errorf("empty sparse embedding result")
	}

	vector := domain.SparseVector{
		Indices: make([]uint32, 0, len(response[0])),
		Values:  make([]float32, 0, len(response[0])),
	}
	for _, entry := range response[0] {
		vector.Indices = append(vector.Indices, entry.Index)
		vector.Values = append(vector.Values, entry.Value)
	}
	return vector, nil
}

func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return wrapTemporaryIfNeeded(operation, fn(ctx))
	}
	err := c.executor.Execute(ctx, operation, fn, classifyEmbedError)
	return wrapTemporaryIfNeeded(operation, err)
}

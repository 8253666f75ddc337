package httpadapter

import (
	"fmt"
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
)

type entityRequest struct {
	Code        string         `json:"code"`
	Lang        string         `json:"lang"`
	Type        string         `json:"type"`
	Provider    string         `json:"provider"`
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	IndexedText string         `json:"indexed_text,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (req entityRequest) toCompetency() domain.Competency {
	return domain.Competency{
		Code:        req.Code,
		Lang:        domain.Language(req.Lang),
		Type:        domain.CompetencyType(req.Type),
		Provider:    domain.Provider(req.Provider),
		Title:       req.Title,
		URL:         req.URL,
		Category:    req.Category,
		Description: req.Description,
		Keywords:    req.Keywords,
		IndexedText: req.IndexedText,
		Metadata:    req.Metadata,
	}
}

type filterSchema struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type searchRequest struct {
	Text       string         `json:"text"`
	SearchType string         `json:"search_type,omitempty"`
	Top        int            `json:"top,omitempty"`
	Filters    []filterSchema `json:"filters,omitempty"`
}

func (req searchRequest) toFilters() ([]domain.Filter, error) {
	if len(req.Filters) == 0 {
		return nil, nil
	}
	filters := make([]domain.Filter, 0, len(req.Filters))
	for i, schema := range req.Filters {
		filter := domain.Filter{
			Field:    strings.TrimSpace(schema.Field),
			Operator: domain.FilterOperator(schema.Operator),
			Value:    schema.Value,
		}
		if filter.Field == "" {
			return nil, fmt.Errorf("filter %d: field is required", i)
		}
		if !filter.Operator.Valid() {
			return nil, fmt.Errorf("filter %d: unsupported operator: %s", i, schema.Operator)
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

type entityResponse struct {
	Identifier string `json:"identifier"`
	domain.Competency
}

func newEntityResponse(entity *domain.Entity) entityResponse {
	return entityResponse{
		Identifier: entity.Identifier,
		Competency: entity.Competency,
	}
}

type searchHit struct {
	Identifier string  `json:"identifier"`
	Score      float64 `json:"score"`
	domain.Competency
}

type searchResponse struct {
	Results []searchHit `json:"results"`
}

func newSearchResponse(results []domain.SearchResult) searchResponse {
	hits := make([]searchHit, 0, len(results))
	for _, result := range results {
		hits = append(hits, searchHit{
			Identifier: result.Entity.Identifier,
			Score:      result.Score,
			Competency: result.Entity.Competency,
		})
	}
	return searchResponse{Results: hits}
}

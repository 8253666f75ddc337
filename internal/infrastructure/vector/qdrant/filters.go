package qdrant

import (
	"fmt"

	"github.com/skillbase/competency-search/internal/core/domain"
)

// buildFilter translates domain filters into Qdrant's filter representation.
// Negative operators go to must_not, everything else to must; an empty filter
// list means no constraint (nil).
func buildFilter(filters []domain.Filter) (map[string]any, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	var must []map[string]any
	var mustNot []map[string]any
	for _, f := range filters {
		condition, err := fieldCondition(f)
		if err != nil {
			return nil, err
		}
		if f.Operator.Negative() {
			mustNot = append(mustNot, condition)
		} else {
			must = append(must, condition)
		}
	}

	out := make(map[string]any, 2)
	if len(must) > 0 {
		out["must"] = must
	}
	if len(mustNot) > 0 {
		out["must_not"] = mustNot
	}
	return out, nil
}

func fieldCondition(f domain.Filter) (map[string]any, error) {
	switch f.Operator {
	case domain.OpEqual, domain.OpNotEqual:
		return matchCondition(f.Field, map[string]any{"value": f.Value}), nil
	case domain.OpIn, domain.OpNotIn:
		return matchCondition(f.Field, map[string]any{"any": f.Value}), nil
	case domain.OpGreaterThan:
		return rangeCondition(f.Field, "gt", f.Value), nil
	case domain.OpGreaterThanOrEqual:
		return rangeCondition(f.Field, "gte", f.Value), nil
	case domain.OpLessThan:
		return rangeCondition(f.Field, "lt", f.Value), nil
	case domain.OpLessThanOrEqual:
		return rangeCondition(f.Field, "lte", f.Value), nil
	default:
		return nil, fmt.Errorf("%w: unsupported filter operator: %s", domain.ErrValidation, f.Operator)
	}
}

func matchCondition(field string, match map[string]any) map[string]any {
	return map[string]any{
		"key":   field,
		"match": match,
	}
}

func rangeCondition(field, bound string, value any) map[string]any {
	return map[string]any{
		"key":   field,
		"range": map[string]any{bound: value},
	}
}

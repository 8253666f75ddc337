// Package indexing derives the indexable documents of a canonical competency.
// A strategy expands one competency into one or more copies that differ only
// in their indexed text.
package indexing

import (
	"fmt"
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
)

// Field names a competency field a strategy may draw text from.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldKeywords    Field = "keywords"
)

// StrategyName selects the expansion behaviour.
type StrategyName string

const (
	FieldDuplication StrategyName = "field_duplication"
	FieldCombination StrategyName = "field_combination"
)

// DefaultFields is the expansion applied when the caller specifies nothing.
var DefaultFields = []Field{FieldTitle, FieldDescription, FieldCategory, FieldKeywords}

// Strategy expands a competency into indexable documents.
type Strategy interface {
	Expand(competency domain.Competency) []domain.Competency
}

// New builds a strategy from its name and field list. An empty name falls
// back to field duplication; an empty field list falls back to DefaultFields.
// Unknown names or fields are configuration errors, raised here before any
// encoding or storage is attempted.
func New(name StrategyName, fields []Field) (Strategy, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, field := range fields {
		if _, ok := fieldExtractors[field]; !ok {
			return nil, fmt.Errorf("%w: no extractor defined for field %q", domain.ErrValidation, field)
		}
	}

	switch name {
	case FieldDuplication, "":
		return duplicationStrategy{fields: fields}, nil
	case FieldCombination:
		return combinationStrategy{fields: fields}, nil
	default:
		return nil, fmt.Errorf("%w: unknown indexing strategy %q", domain.ErrValidation, name)
	}
}

// ParseFields converts caller-supplied field names, validating each.
func ParseFields(names []string) ([]Field, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]Field, 0, len(names))
	for _, name := range names {
		field := Field(strings.TrimSpace(name))
		if _, ok := fieldExtractors[field]; !ok {
			return nil, fmt.Errorf("%w: unknown indexing field %q", domain.ErrValidation, name)
		}
		out = append(out, field)
	}
	return out, nil
}

var fieldExtractors = map[Field]func(domain.Competency) []string{
	FieldTitle: func(c domain.Competency) []string {
		return []string{c.Title}
	},
	FieldDescription: func(c domain.Competency) []string {
		if c.Description == "" {
			return nil
		}
		return []string{c.Description}
	},
	FieldCategory: func(c domain.Competency) []string {
		if c.Category == "" {
			return nil
		}
		return []string{c.Category}
	},
	FieldKeywords: func(c domain.Competency) []string {
		return c.Keywords
	},
}

// duplicationStrategy emits one copy of the competency per non-empty value of
// each requested field; keywords contribute one copy per keyword.
type duplicationStrategy struct {
	fields []Field
}

func (s duplicationStrategy) Expand(competency domain.Competency) []domain.Competency {
	var out []domain.Competency
	for _, field := range s.fields {
		for _, value := range fieldExtractors[field](competency) {
			if strings.TrimSpace(value) == "" {
				continue
			}
			out = append(out, competency.WithIndexedText(value))
		}
	}
	return out
}

// combinationStrategy emits exactly one copy whose indexed text concatenates
// the requested fields: list fields comma-joined, scalar fields appended with
// a single trailing period stripped, segments joined with ". ".
type combinationStrategy struct {
	fields []Field
}

func (s combinationStrategy) Expand(competency domain.Competency) []domain.Competency {
	var parts []string
	for _, field := range s.fields {
		if field == FieldKeywords {
			if joined := strings.Join(competency.Keywords, ", "); joined != "" {
				parts = append(parts, joined)
			}
			continue
		}
		values := fieldExtractors[field](competency)
		if len(values) == 0 || values[0] == "" {
			continue
		}
		parts = append(parts, strings.TrimSuffix(values[0], "."))
	}
	indexedText := strings.TrimSpace(strings.Join(parts, ". "))
	return []domain.Competency{competency.WithIndexedText(indexedText)}
}

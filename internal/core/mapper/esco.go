package mapper

import (
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
)

type escoRecord struct {
	PreferredLabel   string `json:"preferredLabel"`
	Description      string `json:"description"`
	ConceptURI       string `json:"conceptUri"`
	AltLabels        string `json:"altLabels"`
	HiddenLabels     string `json:"hiddenLabels"`
	Code             string `json:"code"`
	Category         string `json:"category"`
	BroaderConceptPT string `json:"broaderConceptPT"`
	IndexedText      string `json:"indexed_text"`
}

// MapESCO normalises one ESCO occupation/skill row.
func MapESCO(meta Meta, raw RawRecord) (domain.Competency, error) {
	var rec escoRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return domain.Competency{}, err
	}

	title := capitalize(strings.TrimSpace(rec.PreferredLabel))

	code := rec.Code
	if code == "" {
		code = strings.TrimSpace(rec.ConceptURI)
	}

	category := rec.Category
	if category == "" && rec.BroaderConceptPT != "" {
		category = strings.ReplaceAll(strings.TrimSpace(rec.BroaderConceptPT), " | ", ", ")
	}

	var keywords []string
	if rec.AltLabels != "" {
		var labels []string
		switch {
		case strings.Contains(rec.AltLabels, " | "):
			labels = strings.Split(rec.AltLabels, " | ")
		case strings.Contains(rec.AltLabels, "\n"):
			labels = strings.Split(rec.AltLabels, "\n")
		default:
			labels = []string{rec.AltLabels}
		}
		for _, label := range labels {
			if trimmed := strings.TrimSpace(label); trimmed != "" {
				keywords = append(keywords, trimmed)
			}
		}
	}
	for _, label := range strings.Split(rec.HiddenLabels, "\n") {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}

	// A title covering two roles separated by a slash contributes both roles
	// as keywords. Anything other than exactly two parts is left alone.
	if split := splitSlashedLabel(title); len(split) > 1 {
		keywords = append(keywords, split...)
	}

	indexedText := rec.IndexedText
	if indexedText == "" {
		indexedText = title
	}

	return domain.Competency{
		Code:        code,
		Lang:        meta.Lang,
		Type:        meta.Type,
		Provider:    domain.ProviderESCO,
		Title:       title,
		URL:         rec.ConceptURI,
		Category:    category,
		Description: rec.Description,
		Keywords:    uniqueSorted(capitalizeAll(keywords)),
		IndexedText: indexedText,
	}, nil
}

// splitSlashedLabel splits "Baker / Pastry chef" into its two roles. Labels
// without a slash, or with more than one, pass through as a single item.
func splitSlashedLabel(label string) []string {
	if !strings.Contains(label, "/") {
		return []string{label}
	}
	parts := strings.Split(label, "/")
	if len(parts) != 2 {
		return []string{label}
	}
	return []string{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}
}

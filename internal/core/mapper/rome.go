package mapper

import (
	"fmt"
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
)

const romeURLTemplate = "https://candidat.pole-emploi.fr/metierscope/fiche-metier/%s"

type romeRecord struct {
	Code        string   `json:"code"`
	Intitule    string   `json:"intitule"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	IndexedText string   `json:"indexed_text"`
}

// MapROME normalises one ROME occupation row. The title is taken verbatim;
// keywords are the appellations, each run through the appellation splitter.
func MapROME(meta Meta, raw RawRecord) (domain.Competency, error) {
	var rec romeRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return domain.Competency{}, err
	}

	var keywords []string
	for _, appellation := range rec.Keywords {
		keywords = append(keywords, splitAppellation(appellation)...)
	}

	indexedText := rec.IndexedText
	if indexedText == "" {
		indexedText = rec.Intitule
	}

	return domain.Competency{
		Code:        rec.Code,
		Lang:        meta.Lang,
		Type:        meta.Type,
		Provider:    domain.ProviderROME,
		Title:       rec.Intitule,
		URL:         fmt.Sprintf(romeURLTemplate, rec.Code),
		Category:    rec.Category,
		Description: rec.Description,
		Keywords:    uniqueSorted(keywords),
		IndexedText: indexedText,
	}, nil
}

// splitAppellation expands slash-separated gendered job appellations such as
// "Vendeur / Vendeuse en boulangerie". ROME abbreviates the shared part of
// the two forms on one side of the slash; the word-count difference tells
// which side carries the shared prefix or suffix.
func splitAppellation(appellation string) []string {
	if !strings.Contains(appellation, "/") {
		return []string{appellation}
	}

	parts := strings.Split(appellation, "/")
	if len(parts) != 2 {
		return []string{appellation}
	}

	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])

	leftWords := strings.Fields(left)
	rightWords := strings.Fields(right)

	var first, second string
	switch {
	case len(leftWords) > len(rightWords):
		// Shared prefix lives on the left: "Technicien de maintenance
		// industrielle / Technicienne".
		prefix := strings.Join(leftWords[:len(leftWords)-len(rightWords)], " ")
		first = left
		second = prefix + " " + right
	case len(rightWords) > len(leftWords):
		// Shared suffix lives on the right: "Vendeur / Vendeuse en boulangerie".
		suffix := strings.Join(rightWords[len(leftWords):], " ")
		first = left + " " + suffix
		second = right
	default:
		first = left
		second = right
	}

	return []string{strings.TrimSpace(first), strings.TrimSpace(second)}
}

package mapper

import (
	"fmt"
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
)

const formaURLTemplate = "https://formacode.centre-inffo.fr/spip.php?page=thesaurus&fcd_code=%s"

type formaRecord struct {
	Code            flexString `json:"code"`
	Title           string     `json:"title"`
	Category        string     `json:"category"`
	NSF             string     `json:"NSF"`
	SemanticField   string     `json:"semantic_field"`
	Synonym         string     `json:"synonym"`
	SynonymJob      string     `json:"synonym_job"`
	SpecificTerms   string     `json:"specific_terms"`
	AssociatedTerms string     `json:"associated_terms"`
	ROME            string     `json:"ROME"`
	ExplicationNote string     `json:"explication_note"`
	ApplicationNote string     `json:"application_note"`
	IndexedText     string     `json:"indexed_text"`
}

// MapForma normalises one Formacode thesaurus row. Most fields carry a
// fixed-length numeric code glued to the front of the value; the code plus
// its separator is stripped before the value is used.
func MapForma(meta Meta, raw RawRecord) (domain.Competency, error) {
	var rec formaRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return domain.Competency{}, err
	}

	title := capitalize(rec.Title)

	var category string
	if rec.Category != "" {
		category = capitalize(removeCodePrefix(rec.Category, 5))
	}

	var nsf string
	if rec.NSF != "" {
		nsf = removeCodePrefix(rec.NSF, 3)
	}

	var keywords []string
	if rec.SemanticField != "" {
		keywords = append(keywords, capitalize(removeCodePrefix(rec.SemanticField, 3)))
	}
	for _, s := range splitTrimmed(rec.Synonym, "$") {
		keywords = append(keywords, capitalize(s))
	}
	for _, s := range splitTrimmed(rec.SynonymJob, "$") {
		keywords = append(keywords, capitalize(s))
	}
	for _, term := range splitTrimmed(rec.SpecificTerms, "$") {
		keywords = append(keywords, capitalize(removeCodePrefix(term, 5)))
	}
	for _, term := range splitTrimmed(rec.AssociatedTerms, "$") {
		keywords = append(keywords, capitalize(removeCodePrefix(term, 5)))
	}
	for _, term := range splitTrimmed(rec.ROME, "$") {
		keywords = append(keywords, capitalize(removeCodePrefix(term, 5)))
	}

	var descriptionParts []string
	for _, part := range []string{nsf, rec.ExplicationNote, rec.ApplicationNote} {
		if part != "" {
			descriptionParts = append(descriptionParts, part)
		}
	}

	indexedText := rec.IndexedText
	if indexedText == "" {
		indexedText = title
	}

	return domain.Competency{
		Code:        rec.Code.String(),
		Lang:        meta.Lang,
		Type:        meta.Type,
		Provider:    domain.ProviderForma,
		Title:       title,
		URL:         fmt.Sprintf(formaURLTemplate, rec.Code.String()),
		Category:    category,
		Description: strings.Join(descriptionParts, ". "),
		Keywords:    uniqueSorted(keywords),
		IndexedText: indexedText,
	}, nil
}

// removeCodePrefix drops the leading numeric code and its separator, i.e. the
// first codeLen+1 characters. Strings too short to carry a code become empty.
func removeCodePrefix(text string, codeLen int) string {
	runes := []rune(text)
	if len(runes) <= codeLen+1 {
		return ""
	}
	return string(runes[codeLen+1:])
}

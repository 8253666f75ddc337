package mapper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
)

const forma14URLTemplate = "https://centreinffo.mondeca.com/KB/index#Concept:uri=https://centre-inffo.fr/descripteur_formacode/%s;tab=props;"

// V14 exports glue codes to values as "123 TEXT" prefixes and "TEXT - 12345"
// suffixes; both are stripped only when the pattern matches exactly.
var (
	leadingCode3  = regexp.MustCompile(`^\d{3} `)
	trailingCode5 = regexp.MustCompile(` - \d{5}$`)
)

type forma14Record struct {
	Code            flexString `json:"Code du Terme"`
	Title           string     `json:"Descripteur en typo riche"`
	Category        string     `json:"TG (Terme Générique)"`
	SemanticField   string     `json:"Champ sémantique"`
	Synonym         string     `json:"Synonymes"`
	SynonymJob      string     `json:"Synonymes métier"`
	SpecificTerms   string     `json:"TS (Termes Spécifiques)"`
	AssociatedTerms string     `json:"TA (Termes Associés)"`
	IndexedText     string     `json:"indexed_text"`
}

// The two note column headers contain U+2019 (typographic apostrophe), which
// encoding/json does not accept inside a struct tag name, so they are read
// off the raw record instead of through decodeRecord.
const (
	forma14ExplicationNote = "NE (Note d’Explication)"
	forma14ApplicationNote = "NA (Note d’Application)"
)

// noteField looks up a V14 note column, tolerating exports that replace the
// typographic apostrophe with the ASCII one.
func noteField(raw RawRecord, key string) string {
	for _, candidate := range []string{key, strings.ReplaceAll(key, "’", "'")} {
		if value, ok := raw[candidate].(string); ok {
			return value
		}
	}
	return ""
}

// MapForma14 normalises one Formacode V14 thesaurus row. The V14 export keeps
// the raw field names of the source spreadsheet and changes both the code
// placement and the list separators relative to the older Formacode export.
func MapForma14(meta Meta, raw RawRecord) (domain.Competency, error) {
	var rec forma14Record
	if err := decodeRecord(raw, &rec); err != nil {
		return domain.Competency{}, err
	}

	category := removeTrailingCode(rec.Category)
	semanticField := capitalize(removeLeadingCode(rec.SemanticField))

	var keywords []string
	keywords = append(keywords, semanticField)
	for _, s := range splitTrimmed(rec.Synonym, "###") {
		keywords = append(keywords, capitalize(s))
	}
	for _, s := range splitTrimmed(rec.SynonymJob, "###") {
		keywords = append(keywords, capitalize(s))
	}
	for _, term := range splitTrimmed(rec.SpecificTerms, "###") {
		keywords = append(keywords, removeTrailingCode(term))
	}
	for _, term := range splitTrimmed(rec.AssociatedTerms, "$") {
		keywords = append(keywords, removeTrailingCode(term))
	}

	description := strings.TrimSpace(noteField(raw, forma14ExplicationNote) + noteField(raw, forma14ApplicationNote))

	indexedText := rec.IndexedText
	if indexedText == "" {
		indexedText = rec.Title
	}

	return domain.Competency{
		Code:        rec.Code.String(),
		Lang:        meta.Lang,
		Type:        meta.Type,
		Provider:    domain.ProviderForma14,
		Title:       rec.Title,
		URL:         fmt.Sprintf(forma14URLTemplate, rec.Code.String()),
		Category:    category,
		Description: description,
		Keywords:    uniqueSorted(keywords),
		IndexedText: indexedText,
	}, nil
}

func removeLeadingCode(text string) string {
	if leadingCode3.MatchString(text) {
		return strings.SplitN(text, " ", 2)[1]
	}
	return text
}

func removeTrailingCode(text string) string {
	if trailingCode5.MatchString(text) {
		idx := strings.LastIndex(text, " - ")
		return text[:idx]
	}
	return text
}

package indexing

import (
	"testing"

	"github.com/skillbase/competency-search/internal/core/domain"
)

func sampleCompetency() domain.Competency {
	return domain.Competency{
		Code:        "D1106",
		Lang:        domain.LangFR,
		Type:        domain.TypeOccupation,
		Provider:    domain.ProviderROME,
		Title:       "Vente en alimentation",
		Category:    "Commerce",
		Description: "Vend des produits alimentaires.",
		Keywords:    []string{"Boulanger", "Vendeur en boulangerie"},
	}
}

func TestDuplicationEmitsOneDocumentPerValue(t *testing.T) {
	strategy, err := New(FieldDuplication, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	docs := strategy.Expand(sampleCompetency())

	want := []string{
		"Vente en alimentation",
		"Vend des produits alimentaires.",
		"Commerce",
		"Boulanger",
		"Vendeur en boulangerie",
	}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.IndexedText != want[i] {
			t.Fatalf("document %d: expected indexed text %q, got %q", i, want[i], doc.IndexedText)
		}
		if doc.Code != "D1106" || doc.Title != "Vente en alimentation" {
			t.Fatalf("document %d: competency fields must be unchanged, got %+v", i, doc)
		}
	}
}

func TestDuplicationSkipsEmptyFields(t *testing.T) {
	strategy, err := New(FieldDuplication, []Field{FieldDescription, FieldCategory, FieldKeywords})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	competency := sampleCompetency()
	competency.Description = ""
	competency.Keywords = nil

	docs := strategy.Expand(competency)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].IndexedText != "Commerce" {
		t.Fatalf("unexpected indexed text: %q", docs[0].IndexedText)
	}
}

func TestCombinationBuildsSingleDocument(t *testing.T) {
	strategy, err := New(FieldCombination, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	docs := strategy.Expand(sampleCompetency())
	if len(docs) != 1 {
		t.Fatalf("expected exactly 1 document, got %d", len(docs))
	}

	want := "Vente en alimentation. Vend des produits alimentaires. Commerce. Boulanger, Vendeur en boulangerie"
	if docs[0].IndexedText != want {
		t.Fatalf("unexpected indexed text: %q", docs[0].IndexedText)
	}
}

func TestCombinationSkipsEmptyFields(t *testing.T) {
	strategy, err := New(FieldCombination, []Field{FieldTitle, FieldDescription})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	competency := sampleCompetency()
	competency.Description = ""

	docs := strategy.Expand(competency)
	if len(docs) != 1 {
		t.Fatalf("expected exactly 1 document, got %d", len(docs))
	}
	if docs[0].IndexedText != "Vente en alimentation" {
		t.Fatalf("unexpected indexed text: %q", docs[0].IndexedText)
	}
}

func TestNewRejectsUnknownField(t *testing.T) {
	_, err := New(FieldDuplication, []Field{"identifier"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := New("field_explosion", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields([]string{" title ", "keywords"})
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	if len(fields) != 2 || fields[0] != FieldTitle || fields[1] != FieldKeywords {
		t.Fatalf("unexpected fields: %v", fields)
	}

	if _, err := ParseFields([]string{"score"}); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

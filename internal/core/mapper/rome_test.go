package mapper

import (
	"reflect"
	"testing"

	"github.com/skillbase/competency-search/internal/core/domain"
)

func TestSplitAppellation(t *testing.T) {
	tests := []struct {
		name        string
		appellation string
		want        []string
	}{
		{
			name:        "no slash passes through",
			appellation: "Boulanger",
			want:        []string{"Boulanger"},
		},
		{
			name:        "equal word counts",
			appellation: "Conseiller clientèle / Conseillère clientèle",
			want:        []string{"Conseiller clientèle", "Conseillère clientèle"},
		},
		{
			name:        "shared suffix on the right",
			appellation: "Vendeur / Vendeuse en boulangerie",
			want:        []string{"Vendeur en boulangerie", "Vendeuse en boulangerie"},
		},
		{
			name:        "shared prefix on the left",
			appellation: "Technicien de maintenance industrielle / Technicienne",
			want:        []string{"Technicien de maintenance industrielle", "Technicien de maintenance Technicienne"},
		},
		{
			name:        "more than two parts passes through",
			appellation: "A / B / C",
			want:        []string{"A / B / C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAppellation(tt.appellation)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("splitAppellation(%q) = %v, want %v", tt.appellation, got, tt.want)
			}
		})
	}
}

func TestMapROMEKeepsTitleVerbatim(t *testing.T) {
	raw := RawRecord{
		"code":        "D1106",
		"intitule":    "vendeur en alimentation",
		"category":    "Commerce",
		"description": "Vend des produits alimentaires.",
		"keywords":    []any{"Vendeur / Vendeuse en boulangerie", "Boulanger"},
	}

	competency, err := MapROME(Meta{Type: domain.TypeOccupation, Lang: domain.LangFR}, raw)
	if err != nil {
		t.Fatalf("MapROME() error = %v", err)
	}

	if competency.Title != "vendeur en alimentation" {
		t.Fatalf("expected verbatim title, got %q", competency.Title)
	}
	if competency.URL != "https://candidat.pole-emploi.fr/metierscope/fiche-metier/D1106" {
		t.Fatalf("unexpected url: %q", competency.URL)
	}

	// Appellations are expanded and kept uncapitalized, then sorted.
	want := []string{"Boulanger", "Vendeur en boulangerie", "Vendeuse en boulangerie"}
	if !reflect.DeepEqual(competency.Keywords, want) {
		t.Fatalf("unexpected keywords: %v", competency.Keywords)
	}
	if competency.IndexedText != "vendeur en alimentation" {
		t.Fatalf("expected indexed text to default to title, got %q", competency.IndexedText)
	}
}

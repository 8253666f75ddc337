package domain

// Provider identifies the upstream data source of a competency.
type Provider string

const (
	ProviderESCO    Provider = "esco"
	ProviderROME    Provider = "rome"
	ProviderForma   Provider = "forma"
	ProviderForma14 Provider = "forma14"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderESCO, ProviderROME, ProviderForma, ProviderForma14:
		return true
	}
	return false
}

// CompetencyType classifies the kind of item a competency describes.
type CompetencyType string

const (
	TypeOccupation    CompetencyType = "occupation"
	TypeSkill         CompetencyType = "skill"
	TypeCertification CompetencyType = "certification"
)

func (t CompetencyType) Valid() bool {
	switch t {
	case TypeOccupation, TypeSkill, TypeCertification:
		return true
	}
	return false
}

// Language is the language tag of a competency record.
type Language string

const (
	LangEN Language = "en"
	LangFR Language = "fr"
)

func (l Language) Valid() bool {
	return l == LangEN || l == LangFR
}

// Competency is the canonical normalised record for one occupation, skill or
// certification item. Code, Lang, Type, Provider and Title are always set;
// the remaining fields are optional and omitted from payloads when empty.
type Competency struct {
	Code        string         `json:"code"`
	Lang        Language       `json:"lang"`
	Type        CompetencyType `json:"type"`
	Provider    Provider       `json:"provider"`
	Title       string         `json:"title"`
	URL         string         `json:"url,omitempty"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	IndexedText string         `json:"indexed_text,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// WithIndexedText returns a copy of the competency with a replaced indexed text.
func (c Competency) WithIndexedText(text string) Competency {
	out := c
	out.IndexedText = text
	return out
}

package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/skillbase/competency-search/internal/core/domain"
)

// RawRecord is one provider row exactly as decoded from the import payload.
type RawRecord map[string]any

// Meta carries the caller-supplied attributes shared by every provider record.
type Meta struct {
	Type domain.CompetencyType
	Lang domain.Language
}

// Func turns one raw provider record into a canonical competency.
type Func func(meta Meta, raw RawRecord) (domain.Competency, error)

// The provider set is closed and known at build time, so mappers are a fixed
// dispatch table rather than a dynamic registry.
var mappers = map[domain.Provider]Func{
	domain.ProviderESCO:    MapESCO,
	domain.ProviderROME:    MapROME,
	domain.ProviderForma:   MapForma,
	domain.ProviderForma14: MapForma14,
}

// ToCompetency normalises a raw record of the given provider.
func ToCompetency(provider domain.Provider, meta Meta, raw RawRecord) (domain.Competency, error) {
	fn, ok := mappers[provider]
	if !ok {
		return domain.Competency{}, fmt.Errorf("%w: no mapper registered for provider %q", domain.ErrValidation, provider)
	}
	return fn(meta, raw)
}

// decodeRecord binds a raw record onto a typed provider struct. Unknown raw
// fields are ignored; missing optional fields stay zero-valued.
func decodeRecord(raw RawRecord, dst any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: encode raw record: %w", domain.ErrValidation, err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode raw record: %w", domain.ErrValidation, err)
	}
	return nil
}

// flexString accepts both JSON strings and numbers; provider codes arrive as
// integers from JSON exports and as text from spreadsheet cells.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return string(f)
}

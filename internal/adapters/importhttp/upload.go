package importhttp

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/infrastructure/extractor/xlsx"
)

type uploadAttributes struct {
	provider         domain.Provider
	competencyType   domain.CompetencyType
	lang             domain.Language
	indexingStrategy string
	indexingFields   []string
}

func parseUploadAttributes(r *http.Request) (uploadAttributes, error) {
	attrs := uploadAttributes{
		provider:         domain.Provider(strings.TrimSpace(r.FormValue("provider"))),
		competencyType:   domain.CompetencyType(strings.TrimSpace(r.FormValue("competency_type"))),
		lang:             domain.Language(strings.TrimSpace(r.FormValue("lang"))),
		indexingStrategy: strings.TrimSpace(r.FormValue("indexing_strategy")),
	}
	if attrs.provider == "" {
		return uploadAttributes{}, fmt.Errorf("form field 'provider' is required")
	}
	if attrs.competencyType == "" {
		return uploadAttributes{}, fmt.Errorf("form field 'competency_type' is required")
	}
	if attrs.lang == "" {
		return uploadAttributes{}, fmt.Errorf("form field 'lang' is required")
	}

	if raw := strings.TrimSpace(r.FormValue("indexing_fields")); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			if field = strings.TrimSpace(field); field != "" {
				attrs.indexingFields = append(attrs.indexingFields, field)
			}
		}
	}
	return attrs, nil
}

// parseRecords reads an uploaded provider file. Spreadsheets are recognized
// by extension; anything else must be a JSON array of objects.
func parseRecords(file multipart.File, filename string) ([]map[string]any, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		records, err := xlsx.Parse(file)
		if err != nil {
			return nil, fmt.Errorf("parse xlsx upload: %w", err)
		}
		return records, nil
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("upload must be a JSON array of records or an .xlsx workbook")
	}
	return records, nil
}

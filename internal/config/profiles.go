package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IndexingProfile declares how a provider's records are expanded into
// indexable documents when the import request does not override it.
type IndexingProfile struct {
	Strategy string   `yaml:"strategy"`
	Fields   []string `yaml:"fields"`
}

type IndexingProfiles struct {
	Providers map[string]IndexingProfile `yaml:"providers"`
}

// LoadIndexingProfiles reads the per-provider indexing profiles file. An
// empty path means no file is configured and yields empty profiles.
func LoadIndexingProfiles(path string) (IndexingProfiles, error) {
	if path == "" {
		return IndexingProfiles{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return IndexingProfiles{}, fmt.Errorf("read indexing profiles: %w", err)
	}

	var profiles IndexingProfiles
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return IndexingProfiles{}, fmt.Errorf("parse indexing profiles: %w", err)
	}
	return profiles, nil
}

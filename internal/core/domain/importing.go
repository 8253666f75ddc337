package domain

import "time"

// ImportInput is one raw provider record submitted for ingestion, together
// with the attributes the provider file does not carry itself.
type ImportInput struct {
	Provider       Provider       `json:"provider"`
	CompetencyType CompetencyType `json:"competency_type"`
	Lang           Language       `json:"lang"`
	Data           map[string]any `json:"data"`

	// Optional indexing overrides; empty values fall back to the provider's
	// configured profile, then to the default strategy.
	IndexingStrategy string   `json:"indexing_strategy,omitempty"`
	IndexingFields   []string `json:"indexing_fields,omitempty"`
}

// ImportJob is one indexable document queued for embedding and storage.
type ImportJob struct {
	JobID      string     `json:"job_id"`
	Competency Competency `json:"competency"`
}

type ImportStatus string

const (
	ImportIndexed ImportStatus = "indexed"
	ImportFailed  ImportStatus = "failed"
)

// ImportRecord is the audit entry written after a job has been processed.
type ImportRecord struct {
	ID        string       `json:"id"`
	Provider  Provider     `json:"provider"`
	Code      string       `json:"code"`
	Title     string       `json:"title"`
	Status    ImportStatus `json:"status"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/skillbase/competency-search/internal/core/domain"
)

type fakeQueue struct {
	jobs []domain.ImportJob
	err  error
}

func (q *fakeQueue) PublishImportJob(_ context.Context, job domain.ImportJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) SubscribeImportJobs(context.Context, func(context.Context, domain.ImportJob) error) error {
	return nil
}

func escoInput() domain.ImportInput {
	return domain.ImportInput{
		Provider:       domain.ProviderESCO,
		CompetencyType: domain.TypeOccupation,
		Lang:           domain.LangEN,
		Data: map[string]any{
			"preferredLabel": "district nurse",
			"code":           "2221.1",
			"description":    "Provides community care.",
			"altLabels":      "community nurse | home nurse",
		},
	}
}

func TestImportOneQueuesOneJobPerDocument(t *testing.T) {
	queue := &fakeQueue{}
	uc := NewImportUseCase(queue, nil)

	// Default duplication over title/description/category/keywords:
	// title + description + 2 keywords = 4 documents.
	queued, err := uc.ImportOne(context.Background(), escoInput())
	if err != nil {
		t.Fatalf("ImportOne() error = %v", err)
	}
	if queued != 4 {
		t.Fatalf("expected 4 queued documents, got %d", queued)
	}
	if len(queue.jobs) != 4 {
		t.Fatalf("expected 4 published jobs, got %d", len(queue.jobs))
	}

	seen := make(map[string]struct{})
	for _, job := range queue.jobs {
		if job.JobID == "" {
			t.Fatalf("job id must be assigned")
		}
		if _, dup := seen[job.JobID]; dup {
			t.Fatalf("duplicate job id: %s", job.JobID)
		}
		seen[job.JobID] = struct{}{}
		if job.Competency.IndexedText == "" {
			t.Fatalf("job competency must carry indexed text")
		}
	}
}

func TestImportOneHonoursRequestStrategyOverride(t *testing.T) {
	queue := &fakeQueue{}
	uc := NewImportUseCase(queue, nil)

	input := escoInput()
	input.IndexingStrategy = "field_combination"
	input.IndexingFields = []string{"title", "keywords"}

	queued, err := uc.ImportOne(context.Background(), input)
	if err != nil {
		t.Fatalf("ImportOne() error = %v", err)
	}
	if queued != 1 {
		t.Fatalf("combination must queue exactly 1 document, got %d", queued)
	}
	text := queue.jobs[0].Competency.IndexedText
	if !strings.Contains(text, "District nurse") || !strings.Contains(text, "Community nurse") {
		t.Fatalf("unexpected combined text: %q", text)
	}
}

func TestImportOneUsesProviderProfile(t *testing.T) {
	queue := &fakeQueue{}
	uc := NewImportUseCase(queue, map[domain.Provider]IndexingProfile{
		domain.ProviderESCO: {Strategy: "field_duplication", Fields: []string{"title"}},
	})

	queued, err := uc.ImportOne(context.Background(), escoInput())
	if err != nil {
		t.Fatalf("ImportOne() error = %v", err)
	}
	if queued != 1 {
		t.Fatalf("profile restricts to title only, expected 1 document, got %d", queued)
	}
}

func TestImportOneValidatesAttributes(t *testing.T) {
	uc := NewImportUseCase(&fakeQueue{}, nil)

	bad := escoInput()
	bad.Provider = "onet"
	if _, err := uc.ImportOne(context.Background(), bad); !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for provider, got %v", err)
	}

	bad = escoInput()
	bad.CompetencyType = "role"
	if _, err := uc.ImportOne(context.Background(), bad); !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for type, got %v", err)
	}

	bad = escoInput()
	bad.Lang = "de"
	if _, err := uc.ImportOne(context.Background(), bad); !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for lang, got %v", err)
	}
}

func TestImportBatchReportsFailingRecord(t *testing.T) {
	queue := &fakeQueue{}
	uc := NewImportUseCase(queue, nil)

	bad := escoInput()
	bad.Provider = "onet"

	total, err := uc.ImportBatch(context.Background(), []domain.ImportInput{escoInput(), bad})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Fatalf("expected failing record index in error, got %v", err)
	}
	if total != 4 {
		t.Fatalf("expected documents of the first record counted, got %d", total)
	}
}

type fakeEntityService struct {
	created []domain.Competency
	err     error
}

func (s *fakeEntityService) CreateEntity(_ context.Context, competency domain.Competency, _ string) (*domain.Entity, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, competency)
	return &domain.Entity{Identifier: "e1", Competency: competency}, nil
}

func (s *fakeEntityService) GetEntity(context.Context, string) (*domain.Entity, error) {
	return nil, nil
}

func (s *fakeEntityService) UpdateEntity(context.Context, string, domain.Competency, string) (*domain.Entity, error) {
	return nil, nil
}

func (s *fakeEntityService) DeleteEntity(context.Context, string) error {
	return nil
}

func (s *fakeEntityService) SearchByText(context.Context, string, []domain.Filter, int, domain.SearchType) ([]domain.SearchResult, error) {
	return nil, nil
}

type fakeAudit struct {
	records []domain.ImportRecord
	err     error
}

func (a *fakeAudit) RecordImport(_ context.Context, record domain.ImportRecord) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, record)
	return nil
}

func (a *fakeAudit) ListRecent(context.Context, int) ([]domain.ImportRecord, error) {
	return a.records, nil
}

func importJob() domain.ImportJob {
	competency := domain.Competency{
		Code:        "2221.1",
		Lang:        domain.LangEN,
		Type:        domain.TypeOccupation,
		Provider:    domain.ProviderESCO,
		Title:       "District nurse",
		IndexedText: "District nurse",
	}
	return domain.ImportJob{JobID: "job-1", Competency: competency}
}

func TestProcessRecordsIndexedOutcome(t *testing.T) {
	entities := &fakeEntityService{}
	audit := &fakeAudit{}
	uc := NewProcessImportUseCase(entities, audit, nil)

	if err := uc.Process(context.Background(), importJob()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(entities.created) != 1 {
		t.Fatalf("expected one created entity, got %d", len(entities.created))
	}
	if len(audit.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(audit.records))
	}
	record := audit.records[0]
	if record.ID != "job-1" || record.Status != domain.ImportIndexed || record.Error != "" {
		t.Fatalf("unexpected audit record: %+v", record)
	}
}

func TestProcessReportsLimiterWait(t *testing.T) {
	uc := NewProcessImportUseCase(&fakeEntityService{}, &fakeAudit{}, rate.NewLimiter(rate.Inf, 1))

	var waits []time.Duration
	uc.ObserveRateWait(func(wait time.Duration) {
		waits = append(waits, wait)
	})

	if err := uc.Process(context.Background(), importJob()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(waits) != 1 {
		t.Fatalf("expected one wait observation, got %d", len(waits))
	}
	if waits[0] < 0 {
		t.Fatalf("negative wait observed: %v", waits[0])
	}
}

func TestProcessRecordsFailedOutcome(t *testing.T) {
	entities := &fakeEntityService{err: errors.New("qdrant down")}
	audit := &fakeAudit{}
	uc := NewProcessImportUseCase(entities, audit, nil)

	err := uc.Process(context.Background(), importJob())
	if err == nil {
		t.Fatalf("expected error")
	}

	if len(audit.records) != 1 {
		t.Fatalf("expected failure recorded, got %d records", len(audit.records))
	}
	record := audit.records[0]
	if record.Status != domain.ImportFailed || record.Error == "" {
		t.Fatalf("unexpected audit record: %+v", record)
	}
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/core/indexing"
	"github.com/skillbase/competency-search/internal/core/mapper"
	"github.com/skillbase/competency-search/internal/core/ports"
)

// IndexingProfile is the per-provider default indexing behaviour, loaded from
// configuration by the composition root.
type IndexingProfile struct {
	Strategy string
	Fields   []string
}

// ImportUseCase maps raw provider records to canonical competencies, expands
// them through an indexing strategy and queues one job per indexable document.
type ImportUseCase struct {
	queue    ports.ImportQueue
	profiles map[domain.Provider]IndexingProfile
}

func NewImportUseCase(queue ports.ImportQueue, profiles map[domain.Provider]IndexingProfile) *ImportUseCase {
	return &ImportUseCase{
		queue:    queue,
		profiles: profiles,
	}
}

func (uc *ImportUseCase) ImportOne(ctx context.Context, input domain.ImportInput) (int, error) {
	if !input.Provider.Valid() {
		return 0, fmt.Errorf("%w: unsupported provider: %s", domain.ErrValidation, input.Provider)
	}
	if !input.CompetencyType.Valid() {
		return 0, fmt.Errorf("%w: unsupported competency type: %s", domain.ErrValidation, input.CompetencyType)
	}
	if !input.Lang.Valid() {
		return 0, fmt.Errorf("%w: unsupported language: %s", domain.ErrValidation, input.Lang)
	}

	competency, err := mapper.ToCompetency(input.Provider, mapper.Meta{
		Type: input.CompetencyType,
		Lang: input.Lang,
	}, input.Data)
	if err != nil {
		return 0, fmt.Errorf("map %s record: %w", input.Provider, err)
	}

	strategy, err := uc.strategyFor(input)
	if err != nil {
		return 0, err
	}

	expanded := strategy.Expand(competency)
	for _, doc := range expanded {
		job := domain.ImportJob{
			JobID:      uuid.NewString(),
			Competency: doc,
		}
		if err := uc.queue.PublishImportJob(ctx, job); err != nil {
			return 0, fmt.Errorf("publish import job: %w", err)
		}
	}
	return len(expanded), nil
}

func (uc *ImportUseCase) ImportBatch(ctx context.Context, inputs []domain.ImportInput) (int, error) {
	total := 0
	for i, input := range inputs {
		count, err := uc.ImportOne(ctx, input)
		if err != nil {
			return total, fmt.Errorf("record %d: %w", i, err)
		}
		total += count
	}
	return total, nil
}

// strategyFor resolves the indexing strategy: request overrides win, then the
// provider's configured profile, then the default duplication strategy.
func (uc *ImportUseCase) strategyFor(input domain.ImportInput) (indexing.Strategy, error) {
	name := input.IndexingStrategy
	fieldNames := input.IndexingFields

	if name == "" && len(fieldNames) == 0 {
		if profile, ok := uc.profiles[input.Provider]; ok {
			name = profile.Strategy
			fieldNames = profile.Fields
		}
	}

	fields, err := indexing.ParseFields(fieldNames)
	if err != nil {
		return nil, err
	}
	return indexing.New(indexing.StrategyName(name), fields)
}

// ProcessImportUseCase is the worker side: it embeds and stores one queued
// document through the entity service and records the outcome. The optional
// limiter throttles bulk imports toward the embedding backend.
type ProcessImportUseCase struct {
	entities     ports.EntityService
	audit        ports.ImportAuditStore
	limiter      *rate.Limiter
	waitObserver func(time.Duration)
}

func NewProcessImportUseCase(
	entities ports.EntityService,
	audit ports.ImportAuditStore,
	limiter *rate.Limiter,
) *ProcessImportUseCase {
	return &ProcessImportUseCase{
		entities: entities,
		audit:    audit,
		limiter:  limiter,
	}
}

// ObserveRateWait registers a callback that receives the time each job spent
// blocked on the limiter.
func (uc *ProcessImportUseCase) ObserveRateWait(fn func(time.Duration)) {
	uc.waitObserver = fn
}

func (uc *ProcessImportUseCase) Process(ctx context.Context, job domain.ImportJob) error {
	if uc.limiter != nil {
		waitStart := time.Now()
		if err := uc.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("import rate limit: %w", err)
		}
		if uc.waitObserver != nil {
			uc.waitObserver(time.Since(waitStart))
		}
	}

	_, createErr := uc.entities.CreateEntity(ctx, job.Competency, job.Competency.IndexedText)

	record := domain.ImportRecord{
		ID:        job.JobID,
		Provider:  job.Competency.Provider,
		Code:      job.Competency.Code,
		Title:     job.Competency.Title,
		Status:    domain.ImportIndexed,
		CreatedAt: time.Now().UTC(),
	}
	if createErr != nil {
		record.Status = domain.ImportFailed
		record.Error = createErr.Error()
	}
	if err := uc.audit.RecordImport(ctx, record); err != nil {
		return fmt.Errorf("record import audit: %w", err)
	}

	if createErr != nil {
		return fmt.Errorf("index competency %s/%s: %w", job.Competency.Provider, job.Competency.Code, createErr)
	}
	return nil
}

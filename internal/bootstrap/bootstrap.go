// Package bootstrap is the composition root shared by the api, importer and
// worker binaries.
package bootstrap

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/skillbase/competency-search/internal/config"
	"github.com/skillbase/competency-search/internal/core/domain"
	"github.com/skillbase/competency-search/internal/core/ports"
	"github.com/skillbase/competency-search/internal/core/usecase"
	"github.com/skillbase/competency-search/internal/infrastructure/embedding/tei"
	"github.com/skillbase/competency-search/internal/infrastructure/queue/nats"
	"github.com/skillbase/competency-search/internal/infrastructure/repository/postgres"
	"github.com/skillbase/competency-search/internal/infrastructure/resilience"
	"github.com/skillbase/competency-search/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue ports.ImportQueue
	Audit ports.ImportAuditStore

	EntityUC  ports.EntityService
	ImportUC  ports.CompetencyImporter
	ProcessUC *usecase.ProcessImportUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	audit := postgres.NewImportStore(db)
	if err := audit.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init import queue: %w", err)
	}

	dense := tei.NewDenseEncoder(tei.New(cfg.TEIDenseURL, executor))
	sparse := tei.NewSparseEncoder(tei.New(cfg.TEISparseURL, executor))

	repo := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, string(domain.VectorDense), string(domain.VectorSparse))
	if err := repo.EnsureCollection(ctx, cfg.DenseVectorSize, "Cosine"); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	profiles, err := loadProfiles(cfg.IndexingProfilesPath)
	if err != nil {
		return nil, err
	}

	entityUC := usecase.NewEntityUseCase(repo, dense, sparse)
	importUC := usecase.NewImportUseCase(queue, profiles)

	limiter := rate.NewLimiter(rate.Limit(cfg.WorkerRateLimit), cfg.WorkerRateBurst)
	processUC := usecase.NewProcessImportUseCase(entityUC, audit, limiter)

	return &App{
		Config: cfg,
		Queue:  queue,
		Audit:  audit,

		EntityUC:  entityUC,
		ImportUC:  importUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func loadProfiles(path string) (map[domain.Provider]usecase.IndexingProfile, error) {
	loaded, err := config.LoadIndexingProfiles(path)
	if err != nil {
		return nil, err
	}

	profiles := make(map[domain.Provider]usecase.IndexingProfile, len(loaded.Providers))
	for name, profile := range loaded.Providers {
		provider := domain.Provider(name)
		if !provider.Valid() {
			return nil, fmt.Errorf("indexing profiles: unknown provider: %s", name)
		}
		profiles[provider] = usecase.IndexingProfile{
			Strategy: profile.Strategy,
			Fields:   profile.Fields,
		}
	}
	return profiles, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

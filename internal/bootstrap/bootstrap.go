package bootstrap

import (
	"context"
	"fmt"

	"github.com/printdesk/labelpress/internal/config"
	"github.com/printdesk/labelpress/internal/core/ports"
	"github.com/printdesk/labelpress/internal/core/usecase"
	"github.com/printdesk/labelpress/internal/infrastructure/extractor/labeltext"
	"github.com/printdesk/labelpress/internal/infrastructure/manifest/xlsx"
	pdfengine "github.com/printdesk/labelpress/internal/infrastructure/pdf/pdfcpu"
	"github.com/printdesk/labelpress/internal/infrastructure/queue/nats"
	"github.com/printdesk/labelpress/internal/infrastructure/repository/postgres"
	"github.com/printdesk/labelpress/internal/infrastructure/resilience"
	"github.com/printdesk/labelpress/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Jobs  ports.JobRepository

	Pipeline  *usecase.MergePipeline
	SubmitUC  ports.JobSubmitter
	ProcessUC ports.JobProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewJobRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	profiles, err := cfg.CropProfiles()
	if err != nil {
		return nil, fmt.Errorf("load crop profiles: %w", err)
	}

	engine := pdfengine.New()
	text := labeltext.New()
	ids := usecase.NewIdentifierExtractor(cfg.TikTokAlnumIDs)
	pipeline := usecase.NewMergePipeline(engine, text, ids, profiles, cfg.BulkParallelism)

	submitUC := usecase.NewSubmitJobUseCase(repo, storage, queue)
	processUC := usecase.NewProcessJobUseCase(repo, storage, pipeline, xlsx.NewWriter())

	return &App{
		Config: cfg,
		Queue:  queue,
		Jobs:   repo,

		Pipeline:  pipeline,
		SubmitUC:  submitUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

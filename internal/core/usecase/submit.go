package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/printdesk/labelpress/internal/core/domain"
	"github.com/printdesk/labelpress/internal/core/ports"
)

// SubmitJobUseCase stores both uploaded sheets, records the job and hands
// it to the worker over the queue.
type SubmitJobUseCase struct {
	repo    ports.JobRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewSubmitJobUseCase(
	repo ports.JobRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *SubmitJobUseCase {
	return &SubmitJobUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *SubmitJobUseCase) Submit(
	ctx context.Context,
	labelFilename string, label io.Reader,
	slipFilename string, slip io.Reader,
) (*domain.MergeJob, error) {
	id := uuid.NewString()
	labelKey := fmt.Sprintf("%s_label_%s", id, sanitizeFilename(labelFilename))
	slipKey := fmt.Sprintf("%s_slip_%s", id, sanitizeFilename(slipFilename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, labelKey, label); err != nil {
		return nil, fmt.Errorf("save label sheet: %w", err)
	}
	if err := uc.storage.Save(ctx, slipKey, slip); err != nil {
		return nil, fmt.Errorf("save slip sheet: %w", err)
	}

	job := &domain.MergeJob{
		ID:        id,
		LabelPath: labelKey,
		SlipPath:  slipKey,
		Status:    domain.JobUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job record: %w", err)
	}

	if err := uc.queue.PublishJobQueued(ctx, job.ID); err != nil {
		// No worker will ever see this job; leave the row telling the truth.
		if failErr := uc.repo.UpdateStatus(ctx, job.ID, domain.JobFailed, err.Error()); failErr != nil {
			return nil, fmt.Errorf("publish job event: %w; mark failed status: %v", err, failErr)
		}
		return nil, fmt.Errorf("publish job event: %w", err)
	}
	return job, nil
}

// GetByID exposes the job read model to the API.
func (uc *SubmitJobUseCase) GetByID(ctx context.Context, id string) (*domain.MergeJob, error) {
	return uc.repo.GetByID(ctx, id)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "sheet.pdf"
	}
	return base
}

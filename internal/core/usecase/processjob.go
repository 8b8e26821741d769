package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/printdesk/labelpress/internal/core/domain"
	"github.com/printdesk/labelpress/internal/core/ports"
)

// ProcessJobUseCase drives one queued bulk merge job from uploaded sheets
// to stored per-order PDFs plus an order manifest.
type ProcessJobUseCase struct {
	repo     ports.JobRepository
	storage  ports.ObjectStorage
	merger   ports.LabelMerger
	manifest ports.ManifestWriter
}

func NewProcessJobUseCase(
	repo ports.JobRepository,
	storage ports.ObjectStorage,
	merger ports.LabelMerger,
	manifest ports.ManifestWriter,
) *ProcessJobUseCase {
	return &ProcessJobUseCase{
		repo:     repo,
		storage:  storage,
		merger:   merger,
		manifest: manifest,
	}
}

func (uc *ProcessJobUseCase) ProcessByID(ctx context.Context, jobID string) error {
	if err := uc.repo.UpdateStatus(ctx, jobID, domain.JobProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, jobID); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, jobID, domain.JobFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, jobID, domain.JobReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessJobUseCase) processPipeline(ctx context.Context, jobID string) error {
	job, err := uc.repo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("fetch job by id: %w", err)
	}

	label, err := uc.readObject(ctx, job.LabelPath)
	if err != nil {
		return fmt.Errorf("read label sheet: %w", err)
	}
	slip, err := uc.readObject(ctx, job.SlipPath)
	if err != nil {
		return fmt.Errorf("read slip sheet: %w", err)
	}

	outcome, err := uc.merger.MergeBulk(ctx, label, slip)
	if err != nil {
		return fmt.Errorf("bulk merge: %w", err)
	}
	if len(outcome.Results) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "bulk merge",
			errors.New("no order could be merged"))
	}

	outputs := make([]domain.JobOutput, 0, len(outcome.Results))
	metadata := make([]domain.ExtractedMetadata, 0, len(outcome.Results))
	for _, result := range outcome.Results {
		key := path.Join("jobs", job.ID, result.Filename)
		if err := uc.storage.Save(ctx, key, bytes.NewReader(result.Bytes)); err != nil {
			return fmt.Errorf("store merged output %s: %w", result.Filename, err)
		}
		outputs = append(outputs, domain.JobOutput{
			OrderID:     result.Metadata.OrderID,
			Filename:    result.Filename,
			StoragePath: key,
		})
		metadata = append(metadata, result.Metadata)
	}

	manifestKey, err := uc.writeManifest(ctx, job.ID, outputs, metadata)
	if err != nil {
		return err
	}

	if err := uc.repo.SaveOutputs(ctx, job.ID, outputs, outcome.Failures, manifestKey); err != nil {
		return fmt.Errorf("save job outputs: %w", err)
	}
	return nil
}

func (uc *ProcessJobUseCase) writeManifest(ctx context.Context, jobID string, outputs []domain.JobOutput, metadata []domain.ExtractedMetadata) (string, error) {
	sheet, err := uc.manifest.Write(outputs, metadata)
	if err != nil {
		return "", fmt.Errorf("render order manifest: %w", err)
	}
	key := path.Join("jobs", jobID, "manifest.xlsx")
	if err := uc.storage.Save(ctx, key, bytes.NewReader(sheet)); err != nil {
		return "", fmt.Errorf("store order manifest: %w", err)
	}
	return key, nil
}

func (uc *ProcessJobUseCase) readObject(ctx context.Context, key string) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

package ports

import (
	"context"
	"io"

	"github.com/printdesk/labelpress/internal/core/domain"
)

// LabelMerger is the inbound contract for synchronous merge operations.
type LabelMerger interface {
	MergeOne(ctx context.Context, label, slip []byte, opts *domain.MergeOptions) (*domain.MergeResult, error)
	MergeBulk(ctx context.Context, labelSheet, slipSheet []byte) (*domain.BulkOutcome, error)
}

// MetadataService is the inbound contract for text/identifier inspection.
// ExtractMetadata returns (nil, nil) when no identifier is present; that is
// an expected outcome, not an error.
type MetadataService interface {
	ExtractMetadata(ctx context.Context, data []byte) (*domain.ExtractedMetadata, error)
	FindAllIdentifiers(ctx context.Context, data []byte) ([]string, error)
	LooksLikeSlipMarker(ctx context.Context, data []byte) (bool, error)
	ExtractBulkLabels(ctx context.Context, data []byte) ([]domain.ExtractedHalf, error)
	ExtractBulkSlips(ctx context.Context, data []byte) ([]domain.SlipGroup, error)
}

// JobSubmitter is the inbound contract for queueing an asynchronous bulk job.
type JobSubmitter interface {
	Submit(ctx context.Context, labelFilename string, label io.Reader, slipFilename string, slip io.Reader) (*domain.MergeJob, error)
}

// JobReader is the inbound read model for job state.
type JobReader interface {
	GetByID(ctx context.Context, id string) (*domain.MergeJob, error)
}

// JobProcessor is the inbound contract for asynchronous bulk processing.
type JobProcessor interface {
	ProcessByID(ctx context.Context, jobID string) error
}

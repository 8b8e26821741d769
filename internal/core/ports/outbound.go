package ports

import (
	"context"
	"io"

	"github.com/printdesk/labelpress/internal/core/domain"
)

// PageEngine is the PDF container toolkit the merge engine is built on.
// Every operation is a whole-buffer transform: input bytes in, new document
// bytes out, source never mutated. Page indices are 0-based.
type PageEngine interface {
	PageCount(data []byte) (int, error)
	PageSize(data []byte, pageIndex int) (width, height float64, err error)

	// CollectPages builds a new document from the selected pages, in the
	// order given. Indices may be non-contiguous.
	CollectPages(data []byte, pageIndices []int) ([]byte, error)

	// SplitPageHorizontal cuts one page into two half-height single-page
	// documents, top half first.
	SplitPageHorizontal(data []byte, pageIndex int) (top, bottom []byte, err error)

	// RotatePage rotates one page clockwise by the given degrees.
	RotatePage(data []byte, pageIndex int, degrees int) ([]byte, error)

	// CropPage sets one page's crop box. Coordinates are in the page's own
	// pre-rotation space, origin bottom-left.
	CropPage(data []byte, pageIndex int, x, y, width, height float64) ([]byte, error)

	// Merge concatenates the documents' pages in argument order.
	Merge(docs [][]byte) ([]byte, error)
}

// TextExtractor pulls plain text out of PDF bytes.
type TextExtractor interface {
	Text(data []byte) (string, error)
	PageText(data []byte, pageIndex int) (string, error)

	// PageBandText returns the text whose baseline falls inside the
	// horizontal band [yMin, yMax) of one page, top-to-bottom order.
	PageBandText(data []byte, pageIndex int, yMin, yMax float64) (string, error)
}

// ObjectStorage stores uploaded sheets and merged outputs.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes bulk merge job events.
type MessageQueue interface {
	PublishJobQueued(ctx context.Context, jobID string) error
	SubscribeJobQueued(ctx context.Context, handler func(context.Context, string) error) error
}

// JobRepository persists and reads merge job state.
type JobRepository interface {
	Create(ctx context.Context, job *domain.MergeJob) error
	GetByID(ctx context.Context, id string) (*domain.MergeJob, error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus, errMessage string) error
	SaveOutputs(ctx context.Context, id string, outputs []domain.JobOutput, failures []domain.BulkFailure, manifestPath string) error
}

// ManifestWriter renders an order manifest for a finished bulk job.
type ManifestWriter interface {
	Write(outputs []domain.JobOutput, metadata []domain.ExtractedMetadata) ([]byte, error)
}

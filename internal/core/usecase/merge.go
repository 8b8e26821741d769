package usecase

import (
	"context"
	"fmt"

	"github.com/printdesk/labelpress/internal/core/domain"
	"github.com/printdesk/labelpress/internal/core/ports"
)

// FallbackFilename names merged output when the slip carried no
// recognizable order identifier.
const FallbackFilename = "merged-label.pdf"

// MergePipeline orchestrates extraction, crop geometry, page splitting,
// reconciliation and slip grouping into the merge operations.
type MergePipeline struct {
	engine      ports.PageEngine
	text        ports.TextExtractor
	ids         *IdentifierExtractor
	transformer *CropRotateTransformer
	labels      *BulkLabelExtractor
	slips       *SlipGrouper
	fallback    FallbackPlacementPolicy
	parallelism int
}

func NewMergePipeline(
	engine ports.PageEngine,
	text ports.TextExtractor,
	ids *IdentifierExtractor,
	profiles domain.ProfileSet,
	parallelism int,
) *MergePipeline {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &MergePipeline{
		engine:      engine,
		text:        text,
		ids:         ids,
		transformer: NewCropRotateTransformer(engine, profiles),
		labels:      NewBulkLabelExtractor(engine, text, ids),
		slips:       NewSlipGrouper(engine, text, ids),
		fallback:    DefaultFallbackPlacement,
		parallelism: parallelism,
	}
}

// WithFallbackPlacement overrides the bulk auto-detection policy.
func (p *MergePipeline) WithFallbackPlacement(policy FallbackPlacementPolicy) *MergePipeline {
	if policy != nil {
		p.fallback = policy
	}
	return p
}

// MergeOne combines one label document and one slip document into a single
// print-ready PDF: the label's first page rotated and cropped to its
// printable area, followed by every slip page unchanged.
func (p *MergePipeline) MergeOne(ctx context.Context, label, slip []byte, opts *domain.MergeOptions) (*domain.MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slipText, err := p.text.Text(slip)
	if err != nil {
		return nil, fmt.Errorf("extract slip text: %w", err)
	}
	meta := p.ids.Extract(slipText)

	layout, err := p.detectLayout(label, opts)
	if err != nil {
		return nil, err
	}

	labelPage, err := p.engine.CollectPages(label, []int{0})
	if err != nil {
		return nil, fmt.Errorf("isolate label page: %w", err)
	}
	labelPage, err = p.transformer.Transform(labelPage, 0, layout)
	if err != nil {
		return nil, err
	}

	merged, err := p.engine.Merge([][]byte{labelPage, slip})
	if err != nil {
		return nil, fmt.Errorf("append slip pages: %w", err)
	}

	result := &domain.MergeResult{
		Bytes:    merged,
		Filename: FallbackFilename,
		Metadata: placeholderMetadata(),
		Layout:   layout,
	}
	if meta != nil {
		result.Metadata = *meta
		if meta.Source != domain.SourceUnknown {
			result.Filename = meta.OrderID + ".pdf"
		}
	}
	return result, nil
}

// detectLayout classifies the label's first page. The sheet size comes
// from the page height; the placement comes from the caller's options or,
// absent those, from the fallback policy over the identifiers found in the
// label text. A page carrying the slip watermark is never auto-promoted to
// bulk, whatever identifiers it contains.
func (p *MergePipeline) detectLayout(label []byte, opts *domain.MergeOptions) (domain.LayoutKind, error) {
	_, height, err := p.engine.PageSize(label, 0)
	if err != nil {
		return domain.LayoutKind{}, fmt.Errorf("read label page size: %w", err)
	}
	layout := domain.LayoutKind{
		Sheet:     sheetSizeFor(height),
		Placement: domain.PlacementStandalone,
	}

	if opts != nil && (opts.ForceBulk || opts.Position != "") {
		layout.Placement = placementForPosition(opts.Position)
		return layout, nil
	}

	labelText, err := p.text.PageText(label, 0)
	if err != nil {
		return domain.LayoutKind{}, fmt.Errorf("extract label text: %w", err)
	}
	if !p.ids.LooksLikeSlipMarker(labelText) {
		layout.Placement = p.fallback(p.ids.FindAllIdentifiers(labelText))
	}
	return layout, nil
}

// ExtractMetadata implements the metadata half of the inbound surface.
func (p *MergePipeline) ExtractMetadata(_ context.Context, data []byte) (*domain.ExtractedMetadata, error) {
	text, err := p.text.Text(data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	return p.ids.Extract(text), nil
}

func (p *MergePipeline) FindAllIdentifiers(_ context.Context, data []byte) ([]string, error) {
	text, err := p.text.Text(data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	return p.ids.FindAllIdentifiers(text), nil
}

func (p *MergePipeline) LooksLikeSlipMarker(_ context.Context, data []byte) (bool, error) {
	text, err := p.text.Text(data)
	if err != nil {
		return false, fmt.Errorf("extract text: %w", err)
	}
	return p.ids.LooksLikeSlipMarker(text), nil
}

func (p *MergePipeline) ExtractBulkLabels(ctx context.Context, data []byte) ([]domain.ExtractedHalf, error) {
	return p.labels.Extract(ctx, data)
}

func (p *MergePipeline) ExtractBulkSlips(ctx context.Context, data []byte) ([]domain.SlipGroup, error) {
	return p.slips.Group(ctx, data)
}

func placeholderMetadata() domain.ExtractedMetadata {
	return domain.ExtractedMetadata{
		Source:        domain.SourceUnknown,
		Date:          domain.Placeholder,
		Tracking:      domain.Placeholder,
		BuyerName:     domain.Placeholder,
		BuyerUsername: domain.Placeholder,
	}
}

package usecase

import (
	"context"
	"testing"

	"github.com/printdesk/labelpress/internal/core/domain"
)

func newPipeline(pdf *fakePDF) *MergePipeline {
	return NewMergePipeline(pdf, pdf, NewIdentifierExtractor(false), domain.DefaultProfiles(), 2)
}

func TestMergeOneHalfSheetEndToEnd(t *testing.T) {
	pdf := newFakePDF()
	label := pdf.register(fakePage{width: 612, height: 390, text: "USPS PRIORITY"})
	slip := pdf.register(
		slipPage("Order #: 555\nOrder date\nJan 22, 2026"),
		slipPage("item list"),
	)

	result, err := newPipeline(pdf).MergeOne(context.Background(), label, slip, nil)
	if err != nil {
		t.Fatalf("MergeOne() error = %v", err)
	}
	if result.Filename != "555.pdf" {
		t.Fatalf("filename = %q, want 555.pdf", result.Filename)
	}
	if result.Metadata.OrderID != "555" || result.Metadata.Source != domain.SourceEtsy {
		t.Fatalf("metadata = %+v", result.Metadata)
	}
	if result.Metadata.Date != "01/22/2026" {
		t.Fatalf("date = %q", result.Metadata.Date)
	}

	out, err := pdf.doc(result.Bytes)
	if err != nil {
		t.Fatalf("merged document missing: %v", err)
	}
	if len(out.pages) != 3 {
		t.Fatalf("merged pages = %d, want label + 2 slip pages", len(out.pages))
	}
	first := out.pages[0]
	if first.rotation != 90 {
		t.Fatalf("label rotation = %d, want 90", first.rotation)
	}
	if first.crop == nil {
		t.Fatalf("label crop box not set")
	}
	crop := *first.crop
	if crop[0] <= 0 || crop[1] <= 0 || crop[0]+crop[2] >= 612 || crop[1]+crop[3] >= 390 {
		t.Fatalf("crop %v not strictly inside original bounds", crop)
	}
	if out.pages[1].text != "Order #: 555\nOrder date\nJan 22, 2026" {
		t.Fatalf("slip pages not appended unchanged")
	}
}

func TestMergeOneFallbackFilenameWithoutIdentifier(t *testing.T) {
	pdf := newFakePDF()
	label := pdf.register(fakePage{width: 612, height: 390})
	slip := pdf.register(slipPage("no order number anywhere"))

	result, err := newPipeline(pdf).MergeOne(context.Background(), label, slip, nil)
	if err != nil {
		t.Fatalf("MergeOne() error = %v", err)
	}
	if result.Filename != FallbackFilename {
		t.Fatalf("filename = %q, want %q", result.Filename, FallbackFilename)
	}
	if result.Metadata.Source != domain.SourceUnknown || result.Metadata.Date != domain.Placeholder {
		t.Fatalf("metadata = %+v, want unknown placeholders", result.Metadata)
	}
}

func TestMergeOneAutoDetectsBulkTop(t *testing.T) {
	// An identifier on the label page promotes it to a bulk top half; the
	// bulk-top profile's distinctive visual-top margin shows up as the
	// crop x origin.
	pdf := newFakePDF()
	label := pdf.register(fakePage{width: 612, height: 390, text: "Order # 777"})
	slip := pdf.register(slipPage("Order # 777"))

	result, err := newPipeline(pdf).MergeOne(context.Background(), label, slip, nil)
	if err != nil {
		t.Fatalf("MergeOne() error = %v", err)
	}
	out, _ := pdf.doc(result.Bytes)
	crop := *out.pages[0].crop
	if crop[0] != domain.DefaultProfiles().BulkTop.Top {
		t.Fatalf("crop x = %v, want bulk-top profile margin", crop[0])
	}
}

func TestMergeOneSlipMarkerBlocksBulkPromotion(t *testing.T) {
	pdf := newFakePDF()
	label := pdf.register(fakePage{width: 612, height: 390, text: "Thanks for your order\nOrder # 777"})
	slip := pdf.register(slipPage("Order # 777"))

	result, err := newPipeline(pdf).MergeOne(context.Background(), label, slip, nil)
	if err != nil {
		t.Fatalf("MergeOne() error = %v", err)
	}
	out, _ := pdf.doc(result.Bytes)
	crop := *out.pages[0].crop
	if crop[0] != domain.DefaultProfiles().Standalone.Top {
		t.Fatalf("crop x = %v, want standalone profile despite identifiers", crop[0])
	}
}

func TestMergeOneForcedBottomPosition(t *testing.T) {
	pdf := newFakePDF()
	label := pdf.register(fakePage{width: 612, height: 390})
	slip := pdf.register(slipPage("Order # 9"))

	opts := &domain.MergeOptions{ForceBulk: true, Position: domain.PositionBottom}
	result, err := newPipeline(pdf).MergeOne(context.Background(), label, slip, opts)
	if err != nil {
		t.Fatalf("MergeOne() error = %v", err)
	}
	out, _ := pdf.doc(result.Bytes)
	crop := *out.pages[0].crop
	if crop[1] != domain.DefaultProfiles().BulkBottom.Left {
		t.Fatalf("crop y = %v, want bulk-bottom visual-left margin", crop[1])
	}
}

func TestMergeOneFullSheetUsesUpperHalf(t *testing.T) {
	pdf := newFakePDF()
	label := pdf.register(fakePage{width: 612, height: 792})
	slip := pdf.register(slipPage("Order # 12"))

	result, err := newPipeline(pdf).MergeOne(context.Background(), label, slip, nil)
	if err != nil {
		t.Fatalf("MergeOne() error = %v", err)
	}
	out, _ := pdf.doc(result.Bytes)
	crop := *out.pages[0].crop
	if crop[1] < 396 {
		t.Fatalf("crop y = %v, want offset into the upper half", crop[1])
	}
}

func TestMergeOneSurfacesLayoutError(t *testing.T) {
	pdf := newFakePDF()
	// Page far too small for any profile: margins exceed the band.
	label := pdf.register(fakePage{width: 20, height: 30})
	slip := pdf.register(slipPage("Order # 3"))

	_, err := newPipeline(pdf).MergeOne(context.Background(), label, slip, nil)
	if err == nil {
		t.Fatalf("expected layout error")
	}
	if !domain.IsKind(err, domain.ErrLayout) {
		t.Fatalf("expected ErrLayout, got %v", err)
	}
}

func TestExtractMetadataReturnsNilWithoutIdentifier(t *testing.T) {
	pdf := newFakePDF()
	doc := pdf.register(slipPage("nothing to see"))

	meta, err := newPipeline(pdf).ExtractMetadata(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	if meta != nil {
		t.Fatalf("expected nil metadata, got %+v", meta)
	}
}

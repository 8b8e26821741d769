package usecase

import (
	"testing"

	"github.com/printdesk/labelpress/internal/core/domain"
)

func TestCropBoxFullSheetOffsetsUpperHalf(t *testing.T) {
	p := domain.CropProfile{Top: 12, Bottom: 12, Left: 18, Right: 10}
	box, err := cropBoxFor(612, 792, domain.SheetFull, p)
	if err != nil {
		t.Fatalf("cropBoxFor() error = %v", err)
	}
	if box.x != 12 {
		t.Fatalf("x = %v, want visual-top margin", box.x)
	}
	if box.y != 396+18 {
		t.Fatalf("y = %v, want half height + visual-left margin", box.y)
	}
	if box.width != 612-12-12 {
		t.Fatalf("width = %v", box.width)
	}
	if box.height != 396-18-10 {
		t.Fatalf("height = %v", box.height)
	}
}

func TestCropBoxHalfSheetSpansFullHeight(t *testing.T) {
	p := domain.CropProfile{Top: 16, Bottom: 16, Left: 30, Right: 12}
	box, err := cropBoxFor(612, 396, domain.SheetHalf, p)
	if err != nil {
		t.Fatalf("cropBoxFor() error = %v", err)
	}
	if box.y != 30 {
		t.Fatalf("y = %v, want visual-left margin with no half offset", box.y)
	}
	if box.height != 396-30-12 {
		t.Fatalf("height = %v", box.height)
	}
}

func TestCropBoxPositiveForValidProfiles(t *testing.T) {
	profiles := domain.DefaultProfiles()
	sizes := []struct{ w, h float64 }{
		{612, 792},
		{595, 842},
		{612, 396},
		{288, 432},
	}
	for _, size := range sizes {
		for _, sheet := range []domain.SheetSize{domain.SheetFull, domain.SheetHalf} {
			for _, p := range []domain.CropProfile{profiles.Standalone, profiles.BulkTop, profiles.BulkBottom} {
				box, err := cropBoxFor(size.w, size.h, sheet, p)
				if err != nil {
					t.Fatalf("cropBoxFor(%v, %v, %v, %+v) error = %v", size.w, size.h, sheet, p, err)
				}
				if box.width <= 0 || box.height <= 0 {
					t.Fatalf("non-positive crop %+v for %v %v", box, size, sheet)
				}
			}
		}
	}
}

func TestCropBoxRejectsDegenerateCrop(t *testing.T) {
	p := domain.CropProfile{Top: 5, Bottom: 5, Left: 200, Right: 200}
	_, err := cropBoxFor(612, 396, domain.SheetHalf, p)
	if err == nil {
		t.Fatalf("expected error for collapsed crop")
	}
	if !domain.IsKind(err, domain.ErrLayout) {
		t.Fatalf("expected ErrLayout, got %v", err)
	}
}

func TestCropBoxRejectsNegativeMargin(t *testing.T) {
	p := domain.CropProfile{Top: -1, Bottom: 5, Left: 5, Right: 5}
	if _, err := cropBoxFor(612, 792, domain.SheetFull, p); err == nil {
		t.Fatalf("expected error for negative margin")
	}
}

func TestTransformSetsRotationAndCropInsideBounds(t *testing.T) {
	pdf := newFakePDF()
	label := pdf.register(fakePage{width: 612, height: 792})

	tr := NewCropRotateTransformer(pdf, domain.DefaultProfiles())
	out, err := tr.Transform(label, 0, domain.LayoutKind{Sheet: domain.SheetFull, Placement: domain.PlacementStandalone})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	doc, err := pdf.doc(out)
	if err != nil {
		t.Fatalf("missing output doc: %v", err)
	}
	page := doc.pages[0]
	if page.rotation != 90 {
		t.Fatalf("rotation = %d, want 90", page.rotation)
	}
	if page.crop == nil {
		t.Fatalf("crop box not set")
	}
	crop := *page.crop
	if crop[0] <= 0 || crop[1] <= 0 {
		t.Fatalf("crop origin %v not strictly inside page", crop)
	}
	if crop[0]+crop[2] >= 612 || crop[1]+crop[3] >= 792 {
		t.Fatalf("crop %v not strictly inside original bounds", crop)
	}
}

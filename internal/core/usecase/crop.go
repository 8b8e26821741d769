package usecase

import (
	"fmt"

	"github.com/printdesk/labelpress/internal/core/domain"
	"github.com/printdesk/labelpress/internal/core/ports"
)

// cropBox is a crop rectangle in the page's own pre-rotation coordinate
// space, origin bottom-left.
type cropBox struct {
	x, y, width, height float64
}

// cropBoxFor translates visual (post-rotation) margins into pre-rotation
// crop coordinates for a page rotated 90 degrees clockwise.
//
// After the rotation the pre-rotation left edge is the visual top, the
// right edge the visual bottom, the bottom edge the visual left and the
// top edge the visual right. On a full sheet the label art occupies the
// upper half of the page, so the y origin starts at half the page height.
func cropBoxFor(pageWidth, pageHeight float64, sheet domain.SheetSize, p domain.CropProfile) (cropBox, error) {
	yBase, bandHeight := 0.0, pageHeight
	if sheet == domain.SheetFull {
		yBase, bandHeight = pageHeight/2, pageHeight/2
	}

	// Visual width is the band height, visual height the page width.
	if err := p.Validate(bandHeight, pageWidth); err != nil {
		return cropBox{}, domain.WrapError(domain.ErrLayout, "validate crop profile", err)
	}

	b := cropBox{
		x:      p.Top,
		y:      yBase + p.Left,
		width:  pageWidth - p.Top - p.Bottom,
		height: bandHeight - p.Left - p.Right,
	}
	if b.width <= 0 || b.height <= 0 {
		return cropBox{}, domain.WrapError(
			domain.ErrLayout,
			"compute crop box",
			fmt.Errorf("non-positive crop area %.1fx%.1f for page %.1fx%.1f", b.width, b.height, pageWidth, pageHeight),
		)
	}
	return b, nil
}

// CropRotateTransformer rotates a label page 90 degrees clockwise and
// restricts its visible region to the label art for the detected layout.
// The page content stream is untouched; only crop box and rotation change.
type CropRotateTransformer struct {
	engine   ports.PageEngine
	profiles domain.ProfileSet
}

func NewCropRotateTransformer(engine ports.PageEngine, profiles domain.ProfileSet) *CropRotateTransformer {
	return &CropRotateTransformer{engine: engine, profiles: profiles}
}

// Transform returns a new document whose pageIndex page presents only the
// intended label when rendered. A collapsed crop area surfaces as
// ErrLayout; it means the assumed layout does not match the page.
func (t *CropRotateTransformer) Transform(data []byte, pageIndex int, layout domain.LayoutKind) ([]byte, error) {
	width, height, err := t.engine.PageSize(data, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("read page size: %w", err)
	}

	profile := t.profiles.ForPlacement(layout.Placement)
	box, err := cropBoxFor(width, height, layout.Sheet, profile)
	if err != nil {
		return nil, err
	}

	cropped, err := t.engine.CropPage(data, pageIndex, box.x, box.y, box.width, box.height)
	if err != nil {
		return nil, fmt.Errorf("set crop box: %w", err)
	}
	rotated, err := t.engine.RotatePage(cropped, pageIndex, 90)
	if err != nil {
		return nil, fmt.Errorf("set rotation: %w", err)
	}
	return rotated, nil
}

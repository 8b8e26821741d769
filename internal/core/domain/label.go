package domain

import "fmt"

// FullSheetMinHeight is the page height (PDF points) above which a label
// page is treated as a full sheet. Half-letter pages land at 396 exactly.
const FullSheetMinHeight = 396.0

type SheetSize string

const (
	SheetFull SheetSize = "full"
	SheetHalf SheetSize = "half"
)

type Placement string

const (
	PlacementStandalone Placement = "standalone"
	PlacementBulkTop    Placement = "bulk_top"
	PlacementBulkBottom Placement = "bulk_bottom"
)

type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// LayoutKind describes how a label page is physically laid out and which
// crop profile therefore applies.
type LayoutKind struct {
	Sheet     SheetSize `json:"sheet"`
	Placement Placement `json:"placement"`
}

// CropProfile holds the four margins trimmed from the page after rotation.
// Margins are expressed in visual (post-rotation) terms, in page units.
type CropProfile struct {
	Top    float64 `yaml:"top" json:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
	Right  float64 `yaml:"right" json:"right"`
}

// Validate rejects profiles that would degenerate to a zero or negative
// crop area on a page with the given visual dimensions.
func (p CropProfile) Validate(visualWidth, visualHeight float64) error {
	if p.Top < 0 || p.Bottom < 0 || p.Left < 0 || p.Right < 0 {
		return fmt.Errorf("crop profile has negative margin: %+v", p)
	}
	if p.Left+p.Right >= visualWidth {
		return fmt.Errorf("horizontal margins %.1f+%.1f exceed visual width %.1f", p.Left, p.Right, visualWidth)
	}
	if p.Top+p.Bottom >= visualHeight {
		return fmt.Errorf("vertical margins %.1f+%.1f exceed visual height %.1f", p.Top, p.Bottom, visualHeight)
	}
	return nil
}

// ProfileSet binds one crop profile to each placement. Profiles are fixed
// records chosen by placement; callers never synthesize them per page.
type ProfileSet struct {
	Standalone CropProfile `yaml:"standalone"`
	BulkTop    CropProfile `yaml:"bulk_top"`
	BulkBottom CropProfile `yaml:"bulk_bottom"`
}

// DefaultProfiles returns the margins tuned for carrier label stock.
func DefaultProfiles() ProfileSet {
	return ProfileSet{
		Standalone: CropProfile{Top: 12, Bottom: 12, Left: 18, Right: 10},
		BulkTop:    CropProfile{Top: 16, Bottom: 16, Left: 30, Right: 12},
		BulkBottom: CropProfile{Top: 16, Bottom: 16, Left: 12, Right: 30},
	}
}

// ForPlacement selects the profile for a placement.
func (s ProfileSet) ForPlacement(p Placement) CropProfile {
	switch p {
	case PlacementBulkTop:
		return s.BulkTop
	case PlacementBulkBottom:
		return s.BulkBottom
	default:
		return s.Standalone
	}
}

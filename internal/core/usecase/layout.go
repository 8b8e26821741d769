package usecase

import "github.com/printdesk/labelpress/internal/core/domain"

// FallbackPlacementPolicy decides the placement of a label page whose text
// carries order identifiers even though the caller requested no bulk
// position. The default treats such pages as bulk top halves, matching how
// operators feed pre-cut two-up sheets one half at a time. This is a
// heuristic: a sheet whose only label sits in the bottom half will be
// misclassified, which is why the policy is injectable rather than inlined.
type FallbackPlacementPolicy func(identifiers []string) domain.Placement

func DefaultFallbackPlacement(identifiers []string) domain.Placement {
	if len(identifiers) > 0 {
		return domain.PlacementBulkTop
	}
	return domain.PlacementStandalone
}

// sheetSizeFor classifies a page as full or half sheet by height alone.
func sheetSizeFor(pageHeight float64) domain.SheetSize {
	if pageHeight > domain.FullSheetMinHeight {
		return domain.SheetFull
	}
	return domain.SheetHalf
}

// placementForPosition maps a forced bulk position onto its placement.
func placementForPosition(pos domain.Position) domain.Placement {
	if pos == domain.PositionBottom {
		return domain.PlacementBulkBottom
	}
	return domain.PlacementBulkTop
}

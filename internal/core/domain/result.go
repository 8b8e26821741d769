package domain

// ExtractedHalf is one label cut out of a two-up sheet page, paired with
// the order identifier reconciliation assigned to it.
type ExtractedHalf struct {
	OrderID  string   `json:"order_id"`
	Position Position `json:"position"`
	Document []byte   `json:"-"`
}

// SlipGroup is the run of slip pages belonging to one order.
type SlipGroup struct {
	OrderID     string `json:"order_id"`
	PageIndices []int  `json:"page_indices"`
	Document    []byte `json:"-"`
}

// MergeResult is the terminal output of one merge: the print-ready PDF,
// the derived filename and the metadata it was filed under.
type MergeResult struct {
	Bytes    []byte            `json:"-"`
	Filename string            `json:"filename"`
	Metadata ExtractedMetadata `json:"metadata"`
	Layout   LayoutKind        `json:"layout"`
}

// MergeOptions lets a caller pin the bulk layout instead of auto-detecting.
type MergeOptions struct {
	ForceBulk bool
	Position  Position
}

// BulkFailure reports one order that could not be merged. Failures never
// abort the remaining orders in the same batch.
type BulkFailure struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// BulkOutcome carries the per-order results and failures of one bulk run.
type BulkOutcome struct {
	Results  []MergeResult `json:"results"`
	Failures []BulkFailure `json:"failures"`
}

package domain

type SourceKind string

const (
	SourceEtsy    SourceKind = "etsy"
	SourceTikTok  SourceKind = "tiktok"
	SourceUnknown SourceKind = "unknown"
)

// Placeholder substitutes metadata fields that were absent from the text.
const Placeholder = "-"

// ExtractedMetadata is the shipment metadata pulled from slip or label text.
// Immutable once produced; a nil value means no identifier was found at all.
type ExtractedMetadata struct {
	OrderID       string     `json:"order_id"`
	Source        SourceKind `json:"source"`
	Date          string     `json:"date"`
	Tracking      string     `json:"tracking"`
	BuyerName     string     `json:"buyer_name"`
	BuyerUsername string     `json:"buyer_username"`
}

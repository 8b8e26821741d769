package usecase

import (
	"regexp"
	"strings"
	"time"

	"github.com/printdesk/labelpress/internal/core/domain"
)

// slipMarkerText is the vendor watermark printed on every packing slip.
// Its presence marks a page as definitively a slip, never a label sheet.
const slipMarkerText = "Thanks for your order"

var (
	reTikTokOrder      = regexp.MustCompile(`Order ID:\s*(\d+)`)
	reTikTokOrderAlnum = regexp.MustCompile(`Order ID:\s*([A-Za-z0-9]+)`)
	reEtsyOrder        = regexp.MustCompile(`Order\s*(?:#|ID)\s*:?\s*(\d+)`)
	reOrderDate        = regexp.MustCompile(`Order date\s+([A-Za-z]{3} \d{1,2}, \d{4})`)
	reTracking         = regexp.MustCompile(`Tracking\s+(\d+)`)
	reBuyer            = regexp.MustCompile(`Buyer\s*\n\s*([^\n(]+?)\s*\n\s*\(([^)]+)\)`)
)

const dateLayoutIn = "Jan 2, 2006"
const dateLayoutOut = "01/02/2006"

type extractionRule struct {
	name  string
	match func(text string) *domain.ExtractedMetadata
}

// IdentifierExtractor turns unstructured page text into shipment metadata
// via an ordered rule table; the first matching rule wins. New vendor
// formats slot in as additional rules without touching crop or
// reconciliation logic.
type IdentifierExtractor struct {
	rules []extractionRule
}

// NewIdentifierExtractor builds the rule table. alnumTikTokIDs widens the
// TikTok order-id pattern from digits to alphanumerics.
func NewIdentifierExtractor(alnumTikTokIDs bool) *IdentifierExtractor {
	tiktok := reTikTokOrder
	if alnumTikTokIDs {
		tiktok = reTikTokOrderAlnum
	}
	return &IdentifierExtractor{
		rules: []extractionRule{
			{name: "tiktok", match: matchTikTok(tiktok)},
			{name: "etsy", match: matchEtsy},
		},
	}
}

// Extract returns the metadata for the first matching rule, or nil when no
// order identifier is present. A nil result is an expected outcome, not a
// failure.
func (e *IdentifierExtractor) Extract(text string) *domain.ExtractedMetadata {
	for _, rule := range e.rules {
		if meta := rule.match(text); meta != nil {
			return meta
		}
	}
	return nil
}

// FindIdentifier returns the first order-number occurrence, if any.
func (e *IdentifierExtractor) FindIdentifier(text string) (string, bool) {
	m := reEtsyOrder.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FindAllIdentifiers returns every order-number occurrence in textual order.
func (e *IdentifierExtractor) FindAllIdentifiers(text string) []string {
	matches := reEtsyOrder.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// LooksLikeSlipMarker reports whether the text carries the packing-slip
// watermark.
func (e *IdentifierExtractor) LooksLikeSlipMarker(text string) bool {
	return strings.Contains(text, slipMarkerText)
}

func matchTikTok(pattern *regexp.Regexp) func(string) *domain.ExtractedMetadata {
	return func(text string) *domain.ExtractedMetadata {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		return &domain.ExtractedMetadata{
			OrderID:       m[1],
			Source:        domain.SourceTikTok,
			Date:          domain.Placeholder,
			Tracking:      domain.Placeholder,
			BuyerName:     domain.Placeholder,
			BuyerUsername: domain.Placeholder,
		}
	}
}

func matchEtsy(text string) *domain.ExtractedMetadata {
	m := reEtsyOrder.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	meta := &domain.ExtractedMetadata{
		OrderID:       m[1],
		Source:        domain.SourceEtsy,
		Date:          domain.Placeholder,
		Tracking:      domain.Placeholder,
		BuyerName:     domain.Placeholder,
		BuyerUsername: domain.Placeholder,
	}
	if d := reOrderDate.FindStringSubmatch(text); d != nil {
		meta.Date = reformatDate(d[1])
	}
	if t := reTracking.FindStringSubmatch(text); t != nil {
		meta.Tracking = t[1]
	}
	if b := reBuyer.FindStringSubmatch(text); b != nil {
		meta.BuyerName = strings.TrimSpace(b[1])
		meta.BuyerUsername = strings.TrimSpace(b[2])
	}
	return meta
}

// reformatDate rewrites "Jan 22, 2026" as "01/22/2026". An unparseable
// capture is kept raw rather than dropped.
func reformatDate(raw string) string {
	parsed, err := time.Parse(dateLayoutIn, raw)
	if err != nil {
		return raw
	}
	return parsed.Format(dateLayoutOut)
}

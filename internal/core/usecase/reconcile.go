package usecase

// ReconcileHalves decides which order identifier belongs to the top and
// which to the bottom half of a two-up sheet page. pageIDs are extracted
// from the whole page, topIDs and botIDs from each half's own band text.
//
// Per-half extraction is unreliable near the physical cut line, so the
// whole-page scan acts as an order-preserving fallback: text extraction
// order follows visual top-to-bottom order. A page holding a single label
// must never yield the same id for both halves, hence the dedup step.
// Deterministic; empty string means no assignment.
func ReconcileHalves(pageIDs, topIDs, botIDs []string) (top, bottom string) {
	if len(topIDs) > 0 {
		top = topIDs[0]
	} else if len(pageIDs) > 0 {
		top = pageIDs[0]
	}

	if len(botIDs) > 0 {
		bottom = botIDs[0]
	} else if len(pageIDs) > 1 {
		bottom = pageIDs[1]
	}

	if top != "" && top == bottom {
		if first, second, ok := firstTwoDistinct(pageIDs); ok {
			top, bottom = first, second
		} else {
			bottom = ""
		}
	}
	return top, bottom
}

func firstTwoDistinct(ids []string) (string, string, bool) {
	if len(ids) == 0 {
		return "", "", false
	}
	first := ids[0]
	for _, id := range ids[1:] {
		if id != first {
			return first, id, true
		}
	}
	return "", "", false
}

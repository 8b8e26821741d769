package usecase

import (
	"context"
	"fmt"

	"github.com/printdesk/labelpress/internal/core/domain"
	"github.com/printdesk/labelpress/internal/core/ports"
)

// SlipGrouper partitions a multi-page slip document into per-order page
// runs. Only the first page of an order's slip set carries the visible
// order number; later pages inherit the current order until a new number
// appears. Pages preceding the first number ever seen cannot be attributed
// and are dropped.
type SlipGrouper struct {
	engine ports.PageEngine
	text   ports.TextExtractor
	ids    *IdentifierExtractor
}

func NewSlipGrouper(engine ports.PageEngine, text ports.TextExtractor, ids *IdentifierExtractor) *SlipGrouper {
	return &SlipGrouper{engine: engine, text: text, ids: ids}
}

// Group returns one SlipGroup per distinct order, in first-seen order.
// The page scan is a strictly sequential fold: the carry-over cursor makes
// page i's attribution depend on pages 0..i-1.
func (g *SlipGrouper) Group(ctx context.Context, data []byte) ([]domain.SlipGroup, error) {
	pageCount, err := g.engine.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("count slip pages: %w", err)
	}

	var seen []string
	indices := make(map[string][]int)
	current := ""

	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageText, err := g.text.PageText(data, i)
		if err != nil {
			return nil, fmt.Errorf("extract slip page %d text: %w", i, err)
		}

		if id, ok := g.ids.FindIdentifier(pageText); ok {
			if _, known := indices[id]; !known {
				seen = append(seen, id)
			}
			current = id
		}
		if current != "" {
			indices[current] = append(indices[current], i)
		}
	}

	groups := make([]domain.SlipGroup, 0, len(seen))
	for _, id := range seen {
		doc, err := g.engine.CollectPages(data, indices[id])
		if err != nil {
			return nil, fmt.Errorf("collect slip pages for order %s: %w", id, err)
		}
		groups = append(groups, domain.SlipGroup{
			OrderID:     id,
			PageIndices: indices[id],
			Document:    doc,
		})
	}
	return groups, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/printdesk/labelpress/internal/core/domain"
	"github.com/printdesk/labelpress/internal/core/ports"
)

// BulkLabelExtractor splits every page of a two-up label sheet into top and
// bottom half documents and reconciles which order each half belongs to.
type BulkLabelExtractor struct {
	engine ports.PageEngine
	text   ports.TextExtractor
	ids    *IdentifierExtractor
}

func NewBulkLabelExtractor(engine ports.PageEngine, text ports.TextExtractor, ids *IdentifierExtractor) *BulkLabelExtractor {
	return &BulkLabelExtractor{engine: engine, text: text, ids: ids}
}

// Extract yields zero, one or two halves per sheet page. A half without a
// reconciled identifier is not emitted.
func (e *BulkLabelExtractor) Extract(ctx context.Context, data []byte) ([]domain.ExtractedHalf, error) {
	pageCount, err := e.engine.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("count sheet pages: %w", err)
	}

	var halves []domain.ExtractedHalf
	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageHalves, err := e.extractPage(data, i)
		if err != nil {
			return nil, fmt.Errorf("split sheet page %d: %w", i, err)
		}
		halves = append(halves, pageHalves...)
	}
	return halves, nil
}

func (e *BulkLabelExtractor) extractPage(data []byte, pageIndex int) ([]domain.ExtractedHalf, error) {
	_, height, err := e.engine.PageSize(data, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("read page size: %w", err)
	}

	pageText, err := e.text.PageText(data, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("extract page text: %w", err)
	}
	topText, err := e.text.PageBandText(data, pageIndex, height/2, height)
	if err != nil {
		return nil, fmt.Errorf("extract top band text: %w", err)
	}
	botText, err := e.text.PageBandText(data, pageIndex, 0, height/2)
	if err != nil {
		return nil, fmt.Errorf("extract bottom band text: %w", err)
	}

	topID, botID := ReconcileHalves(
		e.ids.FindAllIdentifiers(pageText),
		e.ids.FindAllIdentifiers(topText),
		e.ids.FindAllIdentifiers(botText),
	)
	if topID == "" && botID == "" {
		return nil, nil
	}

	topDoc, botDoc, err := e.engine.SplitPageHorizontal(data, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("cut page: %w", err)
	}

	var halves []domain.ExtractedHalf
	if topID != "" {
		halves = append(halves, domain.ExtractedHalf{OrderID: topID, Position: domain.PositionTop, Document: topDoc})
	}
	if botID != "" {
		halves = append(halves, domain.ExtractedHalf{OrderID: botID, Position: domain.PositionBottom, Document: botDoc})
	}
	return halves, nil
}

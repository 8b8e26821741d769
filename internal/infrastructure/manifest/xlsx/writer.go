package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/printdesk/labelpress/internal/core/domain"
)

const sheetName = "Orders"

var headers = []string{"Order ID", "Source", "Order Date", "Tracking", "Buyer", "Buyer Username", "File"}

// Writer renders the per-job order manifest as an xlsx workbook.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Write(outputs []domain.JobOutput, metadata []domain.ExtractedMetadata) ([]byte, error) {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := file.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header cell: %w", err)
		}
	}

	metaByOrder := make(map[string]domain.ExtractedMetadata, len(metadata))
	for _, meta := range metadata {
		metaByOrder[meta.OrderID] = meta
	}

	for row, output := range outputs {
		meta, ok := metaByOrder[output.OrderID]
		if !ok {
			meta = domain.ExtractedMetadata{
				OrderID:       output.OrderID,
				Source:        domain.SourceUnknown,
				Date:          domain.Placeholder,
				Tracking:      domain.Placeholder,
				BuyerName:     domain.Placeholder,
				BuyerUsername: domain.Placeholder,
			}
		}
		values := []any{
			meta.OrderID,
			string(meta.Source),
			meta.Date,
			meta.Tracking,
			meta.BuyerName,
			meta.BuyerUsername,
			output.Filename,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

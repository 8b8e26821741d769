package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/printdesk/labelpress/internal/core/domain"
)

func TestWriteProducesOrderRows(t *testing.T) {
	writer := NewWriter()

	outputs := []domain.JobOutput{
		{OrderID: "3953698770", Filename: "3953698770.pdf", StoragePath: "jobs/j1/3953698770.pdf"},
		{OrderID: "998877", Filename: "998877.pdf", StoragePath: "jobs/j1/998877.pdf"},
	}
	metadata := []domain.ExtractedMetadata{
		{
			OrderID:       "3953698770",
			Source:        domain.SourceEtsy,
			Date:          "01/22/2026",
			Tracking:      "9400123456",
			BuyerName:     "Jane Doe",
			BuyerUsername: "janedoe42",
		},
	}

	data, err := writer.Write(outputs, metadata)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows, err := file.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Order ID" || rows[0][6] != "File" {
		t.Fatalf("header row = %v", rows[0])
	}
	if rows[1][0] != "3953698770" || rows[1][1] != "etsy" || rows[1][2] != "01/22/2026" {
		t.Fatalf("etsy row = %v", rows[1])
	}
	// Missing metadata falls back to placeholder fields.
	if rows[2][0] != "998877" || rows[2][2] != domain.Placeholder {
		t.Fatalf("fallback row = %v", rows[2])
	}
}

func TestWriteEmptyJobStillHasHeader(t *testing.T) {
	data, err := NewWriter().Write(nil, nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows, err := file.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
}

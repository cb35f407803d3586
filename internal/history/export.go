package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"resume-analyzer/internal/analyses"
)

const sheetName = "Analyses"

var exportHeader = []any{"Name", "Email", "File", "Score", "Created", "Technical skills", "Soft skills", "Summary"}

// WriteXLSX writes one spreadsheet row per record, in the given order.
func WriteXLSX(w io.Writer, records []analyses.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			rec.Name(),
			rec.Email(),
			rec.FileName,
			rec.OverallScore,
			rec.CreatedAt.UTC().Format(time.RFC3339),
			strings.Join(rec.Skills.Technical, ", "),
			strings.Join(rec.Skills.Soft, ", "),
			rec.AIFeedback.Summary,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

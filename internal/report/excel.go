package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/berwahousing/records-backend/internal/models"
)

const sheetName = "Clients"

// excelSummaryLabel is the literal in the summary row after the blank
// separator.
const excelSummaryLabel = "Total Clients:"

// buildExcel renders the spreadsheet document: a fixed header row, one row
// per record in supplied order, a blank separator row, and a summary row.
// The column set is fixed; the address/notes option flags only affect the
// tabular-print format.
func buildExcel(records []*models.Client) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 10}, {"B", 30}, {"C", 30}, {"D", 40}, {"E", 50}, {"F", 20},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheetName, w.col, w.col, w.width); err != nil {
			return nil, err
		}
	}

	header := []interface{}{"ID", "Name", "Contact Info", "Address", "Notes", "Created At"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	for i, c := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			c.ID,
			c.Name,
			c.ContactInfo,
			stringOrEmpty(c.Address),
			stringOrEmpty(c.Notes),
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	// Row len+2 stays blank as the separator; summary goes on the row after.
	summaryCell, err := excelize.CoordinatesToCellName(1, len(records)+3)
	if err != nil {
		return nil, err
	}
	summary := []interface{}{excelSummaryLabel, len(records)}
	if err := f.SetSheetRow(sheetName, summaryCell, &summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

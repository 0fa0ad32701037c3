package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/berwahousing/records-backend/internal/models"
)

const pdfTitle = "BERWA HOUSING - Clients Report"

// buildPDF renders the tabular-print document: title block, generation
// timestamp, total count, then one block per record. The PDF creation date
// is pinned to generatedAt so the bytes are reproducible.
func buildPDF(records []*models.Client, opts Options, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle(pdfTitle, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, pdfTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Generated on: "+generatedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Clients: %d", len(records)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for i, c := range records {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s", i+1, c.Name), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, line := range recordDetailLines(c, opts) {
			pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// recordDetailLines returns the detail lines for one record block. Address
// and notes appear only when the corresponding option flag is set and the
// record has a value.
func recordDetailLines(c *models.Client, opts Options) []string {
	lines := []string{"Contact: " + c.ContactInfo}
	if opts.IncludeAddress && c.Address != nil && *c.Address != "" {
		lines = append(lines, "Address: "+*c.Address)
	}
	if opts.IncludeNotes && c.Notes != nil && *c.Notes != "" {
		lines = append(lines, "Notes: "+*c.Notes)
	}
	return lines
}

package query

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"docregistry/internal/model"
)

// exportHeader are the report columns, in order.
var exportHeader = []string{"category", "doc_number", "issue_date", "title", "counterparty", "uploaded_at"}

// ExportCSV renders the flat tabular projection of the snapshot as CSV.
// Pure transform: one header row plus one row per record, input order.
func ExportCSV(docs []model.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range docs {
		row := []string{
			string(d.Category),
			d.DocNumber,
			d.IssueDate,
			d.Title,
			d.Counterparty,
			d.UploadedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

package leads

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"vantage/internal/types"
)

// Columns is the fixed CSV column order of an export.
var Columns = []string{"Name", "Address", "Website", "Email", "Phone", "Type", "Rating"}

// WriteCSV writes the lead set as CSV with the fixed column order. Every
// field is double-quoted, including empty ones, so spreadsheet imports see a
// stable shape regardless of which optional fields the model filled in.
// encoding/csv is not used because it only quotes fields that need it.
func WriteCSV(w io.Writer, leads []types.Lead) error {
	rows := make([]string, 0, len(leads)+1)
	rows = append(rows, quoteRow(Columns))
	for _, l := range leads {
		rows = append(rows, quoteRow([]string{l.Name, l.Address, l.Website, l.Email, l.Phone, l.Type, l.Rating}))
	}
	_, err := io.WriteString(w, strings.Join(rows, "\n")+"\n")
	return err
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// ExportFileName returns the timestamped default export name for a date.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("vantage_export_%s.csv", now.Format("2006-01-02"))
}

// ExportCSV writes the lead set to path, or to a timestamped file in the
// current directory when path is empty. Returns the written path.
func ExportCSV(path string, leads []types.Lead) (string, error) {
	if path == "" {
		path = ExportFileName(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, leads); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table collects rows for terminal display.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow adds a row to the table, padding or cutting it to the header width.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w. The header is emitted as the first row.
func (t *Table) Render(w io.Writer) error {
	if len(t.headers) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	if err := table.Append(t.headers); err != nil {
		return fmt.Errorf("failed to append header row: %w", err)
	}
	for i, row := range t.rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row %d: %w", i+1, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// String renders the table to a string.
func (t *Table) String() string {
	var buf bytes.Buffer
	if err := t.Render(&buf); err != nil {
		return err.Error()
	}
	return buf.String()
}

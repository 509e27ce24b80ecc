package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/esselltwo/gradr/internal/gradebook"
)

// Gradescope export layout: name, SID, email, then a score and max score
// column for each assignment.
const (
	gradescopeIDColumn    = 1
	gradescopeFirstScore  = 3
	gradescopeColumnsEach = 2
)

// ConvertGradescope extracts assignment scores from a Gradescope export for
// the given student ids and writes them in the raw score sheet layout.
// Rows keep Gradescope's order; students not in ids are skipped.
func ConvertGradescope(r io.Reader, w io.Writer, ids []string) error {
	rows, err := ReadRows(r)
	if err != nil {
		return err
	}
	out, err := GradescopeRows(rows, ids)
	if err != nil {
		return err
	}
	return WriteRows(w, out)
}

// GradescopeRows is ConvertGradescope on rows already read.
func GradescopeRows(rows [][]string, ids []string) ([][]string, error) {
	if len(rows) == 0 || len(rows[0]) < gradescopeFirstScore {
		return nil, fmt.Errorf("%w: Gradescope header needs name, SID and email columns", gradebook.ErrInvalidInput)
	}
	header := rows[0]
	numExams := (len(header) - gradescopeFirstScore) / gradescopeColumnsEach
	columns := make([]int, numExams)
	for k := range columns {
		columns[k] = gradescopeFirstScore + gradescopeColumnsEach*k
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	out := [][]string{append([]string{""}, pick(header, columns)...)}
	for _, row := range rows[1:] {
		if len(row) <= gradescopeIDColumn {
			continue
		}
		id := strings.TrimSpace(row[gradescopeIDColumn])
		if !wanted[id] {
			continue
		}
		out = append(out, append([]string{id}, pick(row, columns)...))
	}
	return out, nil
}

// pick returns the cells at columns; cells past the end of row are blank.
func pick(row []string, columns []int) []string {
	cells := make([]string, len(columns))
	for i, c := range columns {
		if c < len(row) {
			cells[i] = row[c]
		}
	}
	return cells
}

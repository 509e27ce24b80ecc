package gradebook

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is one category of a report row. Grade is meaningful only when
// Graded is set.
type Cell struct {
	Category string
	Score    Score
	Graded   bool
	Grade    Grade
}

// ReportRow is one student's line of a grade report.
type ReportRow struct {
	ID    string
	Name  string
	Cells []Cell
}

// Strings renders the row as spreadsheet cells: name, id, then each
// category value followed by its grade label when graded.
func (r ReportRow) Strings() []string {
	out := []string{r.Name, r.ID}
	for _, c := range r.Cells {
		out = append(out, c.Score.String())
		if c.Graded {
			out = append(out, c.Grade.Label())
		}
	}
	return out
}

// ReportHeader returns the header matching ReportRow.Strings.
func (gb *Gradebook) ReportHeader(categories []string) []string {
	header := []string{"Name", "ID"}
	for _, c := range categories {
		header = append(header, c)
		if gb.IsGraded(c) {
			header = append(header, c+" Grade")
		}
	}
	return header
}

// Report collects the requested categories for every student in roster
// order. A graded category with no grade for a student reports a missing
// grade.
func (gb *Gradebook) Report(categories []string) ([]ReportRow, error) {
	rows := make([]ReportRow, 0, len(gb.order))
	for _, id := range gb.order {
		row := ReportRow{ID: id, Name: gb.names[id], Cells: make([]Cell, 0, len(categories))}
		for _, cat := range categories {
			s, err := gb.Score(id, cat)
			if err != nil {
				return nil, err
			}
			cell := Cell{Category: cat, Score: s, Graded: gb.IsGraded(cat)}
			if cell.Graded {
				cell.Grade = gb.grades[id][cat]
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UploadRows returns (id, "", grade) triples for a graded category.
func (gb *Gradebook) UploadRows(category string) ([][]string, error) {
	if !gb.IsGraded(category) {
		return nil, fmt.Errorf("%w: %q has not been graded", ErrMissingCategory, category)
	}
	rows := make([][]string, 0, len(gb.order))
	for _, id := range gb.order {
		rows = append(rows, []string{id, "", gb.grades[id][category].Label()})
	}
	return rows, nil
}

// Values returns a category's values in roster order, missing as zero.
func (gb *Gradebook) Values(category string) ([]float64, error) {
	values := make([]float64, 0, len(gb.order))
	for _, id := range gb.order {
		s, err := gb.Score(id, category)
		if err != nil {
			return nil, err
		}
		values = append(values, s.Value())
	}
	return values, nil
}

// FormatList renders values as a brace-delimited list, e.g. {0.5, 1}.
func FormatList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

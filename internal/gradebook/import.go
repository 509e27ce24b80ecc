package gradebook

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ImportNames reads roster rows of (name, id, ...). Extra cells are
// ignored. Duplicate ids overwrite earlier rows.
func (gb *Gradebook) ImportNames(rows [][]string) error {
	for i, row := range rows {
		if len(row) < 2 {
			return fmt.Errorf("%w: roster row %d has %d cells, need name and id", ErrInvalidInput, i+1, len(row))
		}
		id := strings.TrimSpace(row[1])
		if id == "" {
			return fmt.Errorf("%w: roster row %d has no id", ErrInvalidInput, i+1)
		}
		gb.AddStudent(id, strings.TrimSpace(row[0]))
	}

	gb.logger.Debug("imported roster", zap.Int("students", gb.Len()))
	return nil
}

// ImportScores reads raw scores. The header row names the categories from
// its second cell on; each data row is (id, score, score, ...).
// Cells absent from a short row import as missing.
func (gb *Gradebook) ImportScores(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: score sheet has no header", ErrInvalidInput)
	}
	header := rows[0]
	if len(header) < 2 {
		return fmt.Errorf("%w: score sheet header has no categories", ErrInvalidInput)
	}
	cats := make([]string, len(header)-1)
	for i, c := range header[1:] {
		cats[i] = strings.TrimSpace(c)
	}

	for n, row := range rows[1:] {
		line := n + 2
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if !gb.Exists(id) {
			return fmt.Errorf("row %d: %w: %q", line, ErrUnknownStudent, id)
		}
		for i, cat := range cats {
			cell := ""
			if i+1 < len(row) {
				cell = row[i+1]
			}
			s, err := ParseScore(cell)
			if err != nil {
				return fmt.Errorf("row %d, %q: %w", line, cat, err)
			}
			gb.table[id][cat] = s
		}
	}

	gb.logger.Debug("imported scores", zap.Strings("categories", cats))
	return nil
}

// ImportScaledScores reads per-assignment scores, drops the lowest and
// stores the average of the rest. The header row is
// (_, category, max, max, ...); each data row is (id, drops, score, ...).
func (gb *Gradebook) ImportScaledScores(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: scaled score sheet has no header", ErrInvalidInput)
	}
	header := rows[0]
	if len(header) < 3 {
		return fmt.Errorf("%w: scaled score header needs a category and at least one maximum", ErrInvalidInput)
	}
	category := strings.TrimSpace(header[1])
	maxima := make([]float64, len(header)-2)
	for i, cell := range header[2:] {
		m, err := ParseScore(cell)
		if err != nil || m.IsMissing() {
			return fmt.Errorf("%w: maximum %d for %q: %q", ErrParse, i+1, category, cell)
		}
		maxima[i] = m.Value()
	}

	for n, row := range rows[1:] {
		line := n + 2
		if len(row) == 0 {
			continue
		}
		if len(row) < 2 {
			return fmt.Errorf("row %d: %w: no drop count", line, ErrInvalidInput)
		}
		id := strings.TrimSpace(row[0])
		if !gb.Exists(id) {
			return fmt.Errorf("row %d: %w: %q", line, ErrUnknownStudent, id)
		}
		drops, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return fmt.Errorf("row %d: %w: drop count %q", line, ErrParse, row[1])
		}
		scores := make([]Score, len(row)-2)
		for i, cell := range row[2:] {
			s, err := ParseScore(cell)
			if err != nil {
				return fmt.Errorf("row %d: %w", line, err)
			}
			scores[i] = s
		}
		avg, err := DropAverage(scores, maxima, drops)
		if err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		gb.table[id][category] = NewScore(avg)
	}

	gb.logger.Debug("imported scaled scores",
		zap.String("category", category),
		zap.Int("items", len(maxima)))
	return nil
}

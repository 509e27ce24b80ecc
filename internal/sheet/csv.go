// Package sheet reads and writes the delimited spreadsheets gradr works with.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/esselltwo/gradr/internal/gradebook"
)

// ReadFile reads all rows from a CSV file.
func ReadFile(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	defer file.Close()

	rows, err := ReadRows(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadRows reads all rows from a CSV reader. Rows may differ in length.
func ReadRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable fields

	var rows [][]string
	lineNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum+1, err)
		}
		lineNum++
		rows = append(rows, record)
	}
	return rows, nil
}

// WriteFile writes rows to a CSV file, creating parent directories.
func WriteFile(path string, rows [][]string) error {
	if path == "" {
		return fmt.Errorf("no path specified for sheet")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create sheet directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	defer file.Close()

	return WriteRows(file, rows)
}

// WriteRows writes rows to w with "\n" line endings.
func WriteRows(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)

	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReportRows builds the grade report sheet: a header, then one row per
// student with each category's value and, for graded categories, the grade.
func ReportRows(gb *gradebook.Gradebook, categories []string) ([][]string, error) {
	report, err := gb.Report(categories)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(report)+1)
	rows = append(rows, gb.ReportHeader(categories))
	for _, r := range report {
		rows = append(rows, r.Strings())
	}
	return rows, nil
}

// WriteReport writes the grade report sheet to w.
func WriteReport(w io.Writer, gb *gradebook.Gradebook, categories []string) error {
	rows, err := ReportRows(gb, categories)
	if err != nil {
		return err
	}
	return WriteRows(w, rows)
}

// WriteUpload writes the registrar upload sheet: id, blank, letter grade.
func WriteUpload(w io.Writer, gb *gradebook.Gradebook, category string) error {
	rows, err := gb.UploadRows(category)
	if err != nil {
		return err
	}
	return WriteRows(w, rows)
}

// Package swimlog loads raw swim records from delimited files.
package swimlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/swimtrend/internal/model"
)

// Required column names.
const (
	ColumnTime = "Time"
	ColumnDate = "Date"
)

const utf8BOM = "\ufeff"

// Load reads swim records from path, preserving source order.
// Files ending in .xlsx are read from their first sheet; anything else is CSV.
func Load(path string) ([]model.SwimRecord, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &model.InputError{Err: fmt.Errorf("file path is empty")}
	}
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readXLSX(path)
	} else {
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, &model.InputError{Path: path, Err: err}
	}
	records, err := fromRows(rows)
	if err != nil {
		return nil, &model.InputError{Path: path, Err: err}
	}
	return records, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func fromRows(rows [][]string) ([]model.SwimRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", model.ErrNoRecords)
	}
	timeIdx, dateIdx, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}
	need := max(timeIdx, dateIdx) + 1

	records := make([]model.SwimRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowNum := i + 1
		if len(row) < need {
			return nil, fmt.Errorf("row %d has %d fields, expected at least %d", rowNum, len(row), need)
		}
		records = append(records, model.SwimRecord{
			Row:     rowNum,
			TimeRaw: row[timeIdx],
			DateRaw: row[dateIdx],
		})
	}
	if len(records) == 0 {
		return nil, model.ErrNoRecords
	}
	return records, nil
}

func resolveColumns(header []string) (timeIdx, dateIdx int, err error) {
	timeIdx, dateIdx = -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		switch name {
		case ColumnTime:
			if timeIdx < 0 {
				timeIdx = i
			}
		case ColumnDate:
			if dateIdx < 0 {
				dateIdx = i
			}
		}
	}
	var missing []string
	if timeIdx < 0 {
		missing = append(missing, ColumnTime)
	}
	if dateIdx < 0 {
		missing = append(missing, ColumnDate)
	}
	if len(missing) > 0 {
		return -1, -1, fmt.Errorf("%w: %s", model.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return timeIdx, dateIdx, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

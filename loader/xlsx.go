package loader

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXCorpusLoader reads spreadsheets with a header row on each sheet,
// extracting one record per row from the configured column.
type XLSXCorpusLoader struct {
	Path   string
	Column string
}

// Load implements CorpusLoader.
func (l *XLSXCorpusLoader) Load(ctx context.Context) ([]Record, error) {
	files, err := sourceFiles(l.Path)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, file := range files {
		fileRecords, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

func (l *XLSXCorpusLoader) loadFile(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrLoad, path, err)
	}
	defer f.Close()

	var records []Record
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		col := -1
		for i, name := range rows[0] {
			if name == l.Column {
				col = i
				break
			}
		}
		if col < 0 {
			continue
		}

		for _, row := range rows[1:] {
			if col >= len(row) || row[col] == "" {
				continue
			}
			records = append(records, Record{ID: recordID(path, len(records)), Text: row[col]})
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows with column %q", ErrLoad, path, l.Column)
	}
	return records, nil
}

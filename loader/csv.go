package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVCorpusLoader reads CSV files with a header row, extracting one
// record per row from the configured column.
type CSVCorpusLoader struct {
	Path   string
	Column string
}

// Load implements CorpusLoader.
func (l *CSVCorpusLoader) Load(ctx context.Context) ([]Record, error) {
	files, err := sourceFiles(l.Path)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, f := range files {
		fileRecords, err := l.loadFile(f)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

func (l *CSVCorpusLoader) loadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrLoad, path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := -1
	for i, name := range rows[0] {
		if name == l.Column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %s has no column %q", ErrLoad, path, l.Column)
	}

	var records []Record
	for i, row := range rows[1:] {
		if col >= len(row) || row[col] == "" {
			continue
		}
		records = append(records, Record{ID: recordID(path, i), Text: row[col]})
	}
	return records, nil
}

package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// JSONCorpusLoader reads JSON files holding an array of objects and
// extracts one record per object from the configured field.
type JSONCorpusLoader struct {
	Path  string
	Field string
}

// Load implements CorpusLoader.
func (l *JSONCorpusLoader) Load(ctx context.Context) ([]Record, error) {
	files, err := sourceFiles(l.Path)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s", ErrLoad, f)
		}
		var entries []map[string]any
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrLoad, f, err)
		}
		for i, entry := range entries {
			raw, ok := entry[l.Field]
			if !ok {
				return nil, fmt.Errorf("%w: %s record %d has no field %q", ErrLoad, f, i, l.Field)
			}
			text, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s record %d field %q is not a string", ErrLoad, f, i, l.Field)
			}
			records = append(records, Record{ID: recordID(f, i), Text: text})
		}
	}
	return records, nil
}

package loader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// TextCorpusLoader reads plain-text sources. When the path is a
// directory, each file is one record; when it is a single file, each
// non-empty line is one record.
type TextCorpusLoader struct {
	Path string
}

// Load implements CorpusLoader.
func (l *TextCorpusLoader) Load(ctx context.Context) ([]Record, error) {
	info, err := os.Stat(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, l.Path)
	}

	if info.IsDir() {
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
			text := strings.TrimSpace(string(data))
			if text == "" {
				continue
			}
			records = append(records, Record{ID: recordID(f, 0), Text: text})
		}
		return records, nil
	}

	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, l.Path)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	i := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		records = append(records, Record{ID: recordID(l.Path, i), Text: line})
		i++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %v", ErrLoad, l.Path, err)
	}
	return records, nil
}

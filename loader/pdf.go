package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFCorpusLoader extracts text from PDF files, one record per page.
// Pages whose text cannot be extracted are skipped.
type PDFCorpusLoader struct {
	Path string
}

// Load implements CorpusLoader.
func (l *PDFCorpusLoader) Load(ctx context.Context) ([]Record, error) {
	files, err := sourceFiles(l.Path)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, file := range files {
		fileRecords, err := loadPDF(file)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

func loadPDF(path string) ([]Record, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrLoad, path, err)
	}
	defer f.Close()

	var records []Record
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		records = append(records, Record{ID: recordID(path, len(records)), Text: text})
	}
	return records, nil
}

// Package eval holds gold-standard datasets and the scoring used when
// optimising pipeline components. A dataset is a small held-out corpus
// with the labels a perfect extractor would produce from it.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mbarbier/ontolearn/corpus"
)

// Dataset is a held-out evaluation corpus with gold labels.
type Dataset struct {
	Name string
	Docs []*corpus.Document
	// Terms are the gold candidate-term labels for term extraction.
	Terms []string
	// Relations are gold (source, label, destination) label triples for
	// relation extraction.
	Relations [][3]string
}

// fileDataset is the on-disk JSON shape read by Load.
type fileDataset struct {
	Name      string      `json:"name"`
	Documents []fileDoc   `json:"documents"`
	Terms     []string    `json:"terms"`
	Relations [][3]string `json:"relations"`
}

type fileDoc struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Load reads a dataset file and annotates its documents with the given
// annotator.
func Load(ctx context.Context, path string, ann corpus.Annotator) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var fd fileDataset
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}

	ds := &Dataset{Name: fd.Name, Terms: fd.Terms, Relations: fd.Relations}
	for i, d := range fd.Documents {
		id := d.ID
		if id == "" {
			id = fmt.Sprintf("%s#%d", path, i)
		}
		doc, err := ann.Annotate(ctx, id, d.Text)
		if err != nil {
			return nil, fmt.Errorf("annotating dataset document %s: %w", id, err)
		}
		ds.Docs = append(ds.Docs, doc)
	}
	return ds, nil
}

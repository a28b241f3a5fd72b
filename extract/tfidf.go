package extract

import (
	"context"
	"math"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/eval"
	"github.com/mbarbier/ontolearn/kr"
)

// TFIDFTermExtraction keeps phrases whose best TF-IDF weight across the
// corpus clears a threshold, favouring terms characteristic of
// individual documents over corpus-wide noise.
type TFIDFTermExtraction struct {
	// POS is the fixed set of tags treated as term material.
	POS []string
	// MaxTokens bounds phrase length in tokens.
	MaxTokens int

	// Threshold is the minimum TF-IDF score (the maximum over the
	// documents containing the phrase).
	Threshold ontolearn.Tunable[float64]

	report map[string]float64
}

// NewTFIDFTermExtraction returns a component with a threshold of 0.1
// and phrases up to 4 tokens.
func NewTFIDFTermExtraction() *TFIDFTermExtraction {
	return &TFIDFTermExtraction{
		MaxTokens: 4,
		Threshold: ontolearn.Tune(0.1, 0.05, 0.1, 0.2, 0.4),
	}
}

func (c *TFIDFTermExtraction) Name() string { return "tfidf_term_extraction" }

func (c *TFIDFTermExtraction) CheckResources(ctx context.Context) error { return nil }

func (c *TFIDFTermExtraction) Run(ctx context.Context, st ontolearn.State) error {
	added := c.extract(st.Corpus(), st.Candidates())
	c.report = map[string]float64{
		"terms_added": float64(added),
		"pool_size":   float64(st.Candidates().Len()),
		"threshold":   c.Threshold.Value,
	}
	return nil
}

func (c *TFIDFTermExtraction) PerformanceReport() map[string]float64 { return c.report }

func (c *TFIDFTermExtraction) extract(docs []*corpus.Document, pool *kr.Pool) int {
	allowed := posSet(c.POS)

	// Per-document phrase frequencies and global evidence.
	perDoc := make([]map[string]int, len(docs))
	spans := make(map[string][]corpus.Span)
	df := make(map[string]int)
	for i, doc := range docs {
		counts := make(map[string]int)
		for _, p := range runPhrases(doc, allowed, c.MaxTokens) {
			counts[p.label]++
			spans[p.label] = append(spans[p.label], p.span)
		}
		for label := range counts {
			df[label]++
		}
		perDoc[i] = counts
	}

	n := float64(len(docs))
	added := 0
	for label, docFreq := range df {
		idf := math.Log((n + 1) / (float64(docFreq) + 1))

		best := 0.0
		for i := range docs {
			tf, ok := perDoc[i][label]
			if !ok {
				continue
			}
			total := 0
			for _, count := range perDoc[i] {
				total += count
			}
			if total == 0 {
				continue
			}
			score := float64(tf) / float64(total) * idf
			if score > best {
				best = score
			}
		}
		if best < c.Threshold.Value {
			continue
		}
		if _, ok := pool.Get(label); !ok {
			added++
		}
		pool.Add(label, spans[label]...)
	}
	return added
}

// Optimise implements ontolearn.Optimisable, tuning threshold against
// the dataset's gold terms by F1.
func (c *TFIDFTermExtraction) Optimise(ctx context.Context, ds *eval.Dataset, spaces ontolearn.SearchSpace) (float64, error) {
	spaces = hintSpace(spaces, map[string][]any{
		"threshold": anyValues(c.Threshold.Hint),
	})

	best, score, err := ontolearn.GridSearch(spaces, func(a ontolearn.Assignment) (float64, error) {
		trial := *c
		if err := ontolearn.AssignTo(a, "threshold", &trial.Threshold); err != nil {
			return 0, err
		}
		scratch := kr.NewPool()
		trial.extract(ds.Docs, scratch)
		return eval.Score(poolLabels(scratch), ds.Terms).F1, nil
	})
	if err != nil {
		return 0, err
	}

	if err := ontolearn.AssignTo(best, "threshold", &c.Threshold); err != nil {
		return 0, err
	}
	return score, nil
}

package extract

import (
	"context"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/eval"
	"github.com/mbarbier/ontolearn/kr"
)

// POSTermExtraction finds candidate terms as maximal runs of content
// tokens (by POS) inside sentences and keeps those frequent enough
// across the corpus.
type POSTermExtraction struct {
	// POS is the fixed set of tags treated as term material. Empty means
	// NOUN, PROPN, ADJ.
	POS []string

	// MinFreq drops phrases occurring fewer times corpus-wide.
	MinFreq ontolearn.Tunable[int]
	// MaxTokens drops runs longer than this many tokens. Zero means no
	// limit.
	MaxTokens ontolearn.Tunable[int]

	report map[string]float64
}

// NewPOSTermExtraction returns a component with the usual defaults:
// every phrase kept (MinFreq 1), runs up to 4 tokens.
func NewPOSTermExtraction() *POSTermExtraction {
	return &POSTermExtraction{
		MinFreq:   ontolearn.Tune(1, 1, 2, 3),
		MaxTokens: ontolearn.Tune(4),
	}
}

func (c *POSTermExtraction) Name() string { return "pos_term_extraction" }

// CheckResources implements ontolearn.Component. Extraction is purely
// corpus-driven, so there is nothing to check.
func (c *POSTermExtraction) CheckResources(ctx context.Context) error { return nil }

func (c *POSTermExtraction) Run(ctx context.Context, st ontolearn.State) error {
	added := c.extract(st.Corpus(), st.Candidates())
	c.report = map[string]float64{
		"terms_added": float64(added),
		"pool_size":   float64(st.Candidates().Len()),
		"min_freq":    float64(c.MinFreq.Value),
		"max_tokens":  float64(c.MaxTokens.Value),
	}
	return nil
}

func (c *POSTermExtraction) PerformanceReport() map[string]float64 { return c.report }

// extract is the side-effect-free core shared by Run and Optimise.
func (c *POSTermExtraction) extract(docs []*corpus.Document, pool *kr.Pool) int {
	allowed := posSet(c.POS)

	byLabel := make(map[string][]corpus.Span)
	for _, doc := range docs {
		for _, p := range runPhrases(doc, allowed, c.MaxTokens.Value) {
			byLabel[p.label] = append(byLabel[p.label], p.span)
		}
	}

	added := 0
	for label, spans := range byLabel {
		if len(spans) < c.MinFreq.Value {
			continue
		}
		if _, ok := pool.Get(label); !ok {
			added++
		}
		pool.Add(label, spans...)
	}
	return added
}

// Optimise implements ontolearn.Optimisable, tuning min_freq and
// max_tokens against the dataset's gold terms by F1.
func (c *POSTermExtraction) Optimise(ctx context.Context, ds *eval.Dataset, spaces ontolearn.SearchSpace) (float64, error) {
	spaces = hintSpace(spaces, map[string][]any{
		"min_freq":   anyValues(c.MinFreq.Hint),
		"max_tokens": anyValues(c.MaxTokens.Hint),
	})

	best, score, err := ontolearn.GridSearch(spaces, func(a ontolearn.Assignment) (float64, error) {
		trial := *c
		if err := ontolearn.AssignTo(a, "min_freq", &trial.MinFreq); err != nil {
			return 0, err
		}
		if err := ontolearn.AssignTo(a, "max_tokens", &trial.MaxTokens); err != nil {
			return 0, err
		}
		scratch := kr.NewPool()
		trial.extract(ds.Docs, scratch)
		return eval.Score(poolLabels(scratch), ds.Terms).F1, nil
	})
	if err != nil {
		return 0, err
	}

	if err := ontolearn.AssignTo(best, "min_freq", &c.MinFreq); err != nil {
		return 0, err
	}
	if err := ontolearn.AssignTo(best, "max_tokens", &c.MaxTokens); err != nil {
		return 0, err
	}
	return score, nil
}

package extract

import (
	"context"
	"math"
	"strings"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/eval"
	"github.com/mbarbier/ontolearn/kr"
)

// CValueTermExtraction scores candidate phrases with the C-value
// measure, which rewards frequent multi-word phrases while discounting
// those mostly seen nested inside longer phrases.
type CValueTermExtraction struct {
	// POS is the fixed set of tags treated as term material.
	POS []string
	// MaxTermTokens bounds phrase length in tokens.
	MaxTermTokens int

	// Threshold is the minimum C-value for a phrase to become a
	// candidate term.
	Threshold ontolearn.Tunable[float64]

	report map[string]float64
}

// NewCValueTermExtraction returns a component with a threshold of 1 and
// phrases up to 4 tokens.
func NewCValueTermExtraction() *CValueTermExtraction {
	return &CValueTermExtraction{
		MaxTermTokens: 4,
		Threshold:     ontolearn.Tune(1.0, 0.5, 1.0, 2.0, 4.0),
	}
}

func (c *CValueTermExtraction) Name() string { return "cvalue_term_extraction" }

func (c *CValueTermExtraction) CheckResources(ctx context.Context) error { return nil }

func (c *CValueTermExtraction) Run(ctx context.Context, st ontolearn.State) error {
	added := c.extract(st.Corpus(), st.Candidates())
	c.report = map[string]float64{
		"terms_added": float64(added),
		"pool_size":   float64(st.Candidates().Len()),
		"threshold":   c.Threshold.Value,
	}
	return nil
}

func (c *CValueTermExtraction) PerformanceReport() map[string]float64 { return c.report }

func (c *CValueTermExtraction) extract(docs []*corpus.Document, pool *kr.Pool) int {
	allowed := posSet(c.POS)

	freq := make(map[string]int)
	spans := make(map[string][]corpus.Span)
	for _, doc := range docs {
		for _, p := range subPhrases(doc, allowed, c.MaxTermTokens) {
			freq[p.label]++
			spans[p.label] = append(spans[p.label], p.span)
		}
	}

	// For each phrase, collect the longer phrases containing it.
	type nesting struct {
		count    int // number of distinct containing phrases
		totalFrq int // summed frequency of containing phrases
	}
	nested := make(map[string]nesting)
	for longer, f := range freq {
		for shorter := range freq {
			if shorter == longer || !containsPhrase(longer, shorter) {
				continue
			}
			n := nested[shorter]
			n.count++
			n.totalFrq += f
			nested[shorter] = n
		}
	}

	added := 0
	for label, f := range freq {
		length := float64(tokenLen(label))
		weight := math.Log2(length + 1)

		cval := weight * float64(f)
		if n, ok := nested[label]; ok && n.count > 0 {
			cval = weight * (float64(f) - float64(n.totalFrq)/float64(n.count))
		}
		if cval < c.Threshold.Value {
			continue
		}
		if _, ok := pool.Get(label); !ok {
			added++
		}
		pool.Add(label, spans[label]...)
	}
	return added
}

// containsPhrase reports whether shorter occurs as a contiguous token
// sub-sequence of longer.
func containsPhrase(longer, shorter string) bool {
	lt := strings.Fields(longer)
	st := strings.Fields(shorter)
	if len(st) >= len(lt) {
		return false
	}
	for i := 0; i+len(st) <= len(lt); i++ {
		match := true
		for j := range st {
			if lt[i+j] != st[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Optimise implements ontolearn.Optimisable, tuning threshold against
// the dataset's gold terms by F1.
func (c *CValueTermExtraction) Optimise(ctx context.Context, ds *eval.Dataset, spaces ontolearn.SearchSpace) (float64, error) {
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

package extract

import (
	"context"
	"fmt"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/ks"
)

// KnowledgeEnrichment consults a knowledge source for every candidate
// term and every concept realisation, merging the source's related
// terms (synonyms, hypernyms, hyponyms, antonyms) into their
// enrichment. Existing enrichment is only ever extended.
type KnowledgeEnrichment struct {
	Source ks.KnowledgeSource

	// Candidates and Concepts choose the enrichment targets. Both
	// default to true via NewKnowledgeEnrichment.
	Candidates bool
	Concepts   bool

	report map[string]float64
}

// NewKnowledgeEnrichment returns a component enriching both the pool
// and the graph from the given source.
func NewKnowledgeEnrichment(source ks.KnowledgeSource) *KnowledgeEnrichment {
	return &KnowledgeEnrichment{Source: source, Candidates: true, Concepts: true}
}

func (c *KnowledgeEnrichment) Name() string { return "knowledge_enrichment" }

// CheckResources delegates to the knowledge source.
func (c *KnowledgeEnrichment) CheckResources(ctx context.Context) error {
	if c.Source == nil {
		return fmt.Errorf("%w: no knowledge source configured", ontolearn.ErrMissingResource)
	}
	return c.Source.CheckResources(ctx)
}

func (c *KnowledgeEnrichment) Run(ctx context.Context, st ontolearn.State) error {
	enriched := 0

	if c.Candidates {
		for _, ct := range st.Candidates().All() {
			if err := c.Source.Enrich(ctx, ct.Label(), ct.EnsureEnrichment()); err != nil {
				return fmt.Errorf("enriching candidate %q: %w", ct.Label(), err)
			}
			enriched++
		}
	}

	if c.Concepts {
		for _, concept := range st.KR().Concepts() {
			for _, lr := range concept.Realisations() {
				if err := c.Source.Enrich(ctx, lr.Label(), lr.EnsureEnrichment()); err != nil {
					return fmt.Errorf("enriching concept %q: %w", concept.Label(), err)
				}
				enriched++
			}
		}
	}

	c.report = map[string]float64{
		"targets_enriched": float64(enriched),
	}
	return nil
}

func (c *KnowledgeEnrichment) PerformanceReport() map[string]float64 { return c.report }

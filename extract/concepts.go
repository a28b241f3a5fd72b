package extract

import (
	"context"
	"fmt"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/kr"
)

// TermsToConcepts promotes every pooled candidate term into a concept.
// The candidate's evidence becomes a fresh linguistic realisation owned
// by the concept; enrichment is copied, never shared. Candidates stay
// in the pool so later components can still read them.
type TermsToConcepts struct {
	report map[string]float64
}

// NewTermsToConcepts returns the promotion component.
func NewTermsToConcepts() *TermsToConcepts { return &TermsToConcepts{} }

func (c *TermsToConcepts) Name() string { return "terms_to_concepts" }

func (c *TermsToConcepts) CheckResources(ctx context.Context) error { return nil }

func (c *TermsToConcepts) Run(ctx context.Context, st ontolearn.State) error {
	created, merged := 0, 0
	for _, ct := range st.Candidates().All() {
		lr := kr.NewConceptLR(ct.Label(), ct.Occurrences()...)
		if e := ct.Enrichment(); e != nil {
			lr.EnsureEnrichment().Merge(e)
		}

		if existing, ok := st.KR().ConceptByLabel(ct.Label()); ok {
			existing.AddRealisation(lr)
			merged++
			continue
		}

		concept := kr.NewConcept(ct.Label())
		concept.AddRealisation(lr)
		if err := st.KR().AddConcept(concept); err != nil {
			return fmt.Errorf("promoting %q: %w", ct.Label(), err)
		}
		created++
	}
	c.report = map[string]float64{
		"concepts_created": float64(created),
		"concepts_merged":  float64(merged),
		"graph_size":       float64(st.KR().Len()),
	}
	return nil
}

func (c *TermsToConcepts) PerformanceReport() map[string]float64 { return c.report }

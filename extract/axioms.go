package extract

import (
	"context"
	"sort"

	"github.com/mbarbier/ontolearn"
)

// Axiom is one logical statement derived from the graph, in subject,
// predicate, object form over concept and relation labels.
type Axiom struct {
	// Kind is one of SubClassOf, ObjectPropertyDomain, ObjectPropertyRange.
	Kind      string
	Subject   string
	Predicate string
	Object    string
}

// Axiom kinds.
const (
	AxiomSubClassOf     = "SubClassOf"
	AxiomPropertyDomain = "ObjectPropertyDomain"
	AxiomPropertyRange  = "ObjectPropertyRange"
)

// AxiomExtraction derives axioms from the finished graph: SubClassOf
// from generalisation metarelations, domain and range axioms from
// relations. The graph itself is read, never written; results are held
// by the component.
type AxiomExtraction struct {
	axioms []Axiom
	report map[string]float64
}

// NewAxiomExtraction returns the component.
func NewAxiomExtraction() *AxiomExtraction { return &AxiomExtraction{} }

func (c *AxiomExtraction) Name() string { return "axiom_extraction" }

func (c *AxiomExtraction) CheckResources(ctx context.Context) error { return nil }

func (c *AxiomExtraction) Run(ctx context.Context, st ontolearn.State) error {
	graph := st.KR()
	seen := make(map[Axiom]bool)
	c.axioms = c.axioms[:0]

	add := func(a Axiom) {
		if !seen[a] {
			seen[a] = true
			c.axioms = append(c.axioms, a)
		}
	}

	subclass := 0
	for _, m := range graph.MetaRelations() {
		if m.Label() != GeneralisedBy {
			continue
		}
		add(Axiom{
			Kind:    AxiomSubClassOf,
			Subject: m.Source.Label(),
			Object:  m.Destination.Label(),
		})
		subclass++
	}

	property := 0
	for _, r := range graph.Relations() {
		add(Axiom{
			Kind:      AxiomPropertyDomain,
			Subject:   r.Label(),
			Predicate: r.Label(),
			Object:    r.Source.Label(),
		})
		add(Axiom{
			Kind:      AxiomPropertyRange,
			Subject:   r.Label(),
			Predicate: r.Label(),
			Object:    r.Destination.Label(),
		})
		property++
	}

	sort.Slice(c.axioms, func(i, j int) bool {
		a, b := c.axioms[i], c.axioms[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Object < b.Object
	})

	c.report = map[string]float64{
		"axioms":            float64(len(c.axioms)),
		"subclass_links":    float64(subclass),
		"relations_covered": float64(property),
	}
	return nil
}

func (c *AxiomExtraction) PerformanceReport() map[string]float64 { return c.report }

// Axioms returns the axioms derived by the last Run, deterministically
// ordered.
func (c *AxiomExtraction) Axioms() []Axiom { return c.axioms }

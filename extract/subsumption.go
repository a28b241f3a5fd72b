package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/kr"
)

// GeneralisedBy is the metarelation label linking a specific concept to
// the more general concept subsuming it.
const GeneralisedBy = "is_generalised_by"

// SubsumptionMetarelationExtraction derives generalisation links from
// label structure: a concept whose label ends with another concept's
// label (as whole tokens) is taken to be subsumed by it, so "stem cell"
// is generalised by "cell". The component only links concepts already
// in the graph.
type SubsumptionMetarelationExtraction struct {
	report map[string]float64
}

// NewSubsumptionMetarelationExtraction returns the component.
func NewSubsumptionMetarelationExtraction() *SubsumptionMetarelationExtraction {
	return &SubsumptionMetarelationExtraction{}
}

func (c *SubsumptionMetarelationExtraction) Name() string {
	return "subsumption_metarelation_extraction"
}

func (c *SubsumptionMetarelationExtraction) CheckResources(ctx context.Context) error { return nil }

func (c *SubsumptionMetarelationExtraction) Run(ctx context.Context, st ontolearn.State) error {
	graph := st.KR()
	concepts := graph.Concepts()

	created := 0
	for _, specific := range concepts {
		for _, general := range concepts {
			if specific == general || !headedBy(specific.Label(), general.Label()) {
				continue
			}
			if hasMetaRelation(graph, GeneralisedBy, specific, general) {
				continue
			}

			m := kr.NewMetaRelation(GeneralisedBy, specific, general)
			if occ, ok := pairEvidence(specific, general); ok {
				m.AddRealisation(kr.NewMetaRelationLR(GeneralisedBy, occ))
			}
			if err := graph.AddMetaRelation(m); err != nil {
				return fmt.Errorf("generalising %q by %q: %w",
					specific.Label(), general.Label(), err)
			}
			created++
		}
	}
	c.report = map[string]float64{
		"metarelations_created": float64(created),
	}
	return nil
}

func (c *SubsumptionMetarelationExtraction) PerformanceReport() map[string]float64 {
	return c.report
}

// headedBy reports whether specific's label ends with general's label
// as whole tokens, with at least one extra modifier token in front.
func headedBy(specific, general string) bool {
	st := strings.Fields(specific)
	gt := strings.Fields(general)
	if len(gt) == 0 || len(st) <= len(gt) {
		return false
	}
	for i := range gt {
		if st[len(st)-len(gt)+i] != gt[i] {
			return false
		}
	}
	return true
}

func hasMetaRelation(graph *kr.KnowledgeRepresentation, label string, source, destination kr.Element) bool {
	for _, m := range graph.MetaRelations() {
		if m.Label() == label && m.Source == source && m.Destination == destination {
			return true
		}
	}
	return false
}

// pairEvidence picks one occurrence span from each concept's
// realisations, when both have any.
func pairEvidence(specific, general *kr.Concept) (kr.MetaRelationOccurrence, bool) {
	s, okS := firstOccurrence(specific)
	g, okG := firstOccurrence(general)
	if !okS || !okG {
		return kr.MetaRelationOccurrence{}, false
	}
	return kr.MetaRelationOccurrence{Source: s, Destination: g}, true
}

func firstOccurrence(c *kr.Concept) (corpus.Span, bool) {
	for _, lr := range c.Realisations() {
		occ := lr.Occurrences()
		if len(occ) > 0 {
			return occ[0], true
		}
	}
	return corpus.Span{}, false
}

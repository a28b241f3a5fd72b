package extract

import (
	"context"
	"fmt"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/eval"
	"github.com/mbarbier/ontolearn/kr"
	"github.com/mbarbier/ontolearn/ks"
)

// KnowledgeConceptExtraction promotes only the candidates an external
// knowledge source recognises, tagging the resulting concepts with the
// source's external identifiers.
type KnowledgeConceptExtraction struct {
	Source ks.KnowledgeSource

	// MinScore drops matches the source scored below this.
	MinScore ontolearn.Tunable[float64]

	report map[string]float64
}

// NewKnowledgeConceptExtraction returns a component backed by the given
// source, accepting matches scored 0.9 or higher.
func NewKnowledgeConceptExtraction(source ks.KnowledgeSource) *KnowledgeConceptExtraction {
	return &KnowledgeConceptExtraction{
		Source:   source,
		MinScore: ontolearn.Tune(0.9, 0.5, 0.7, 0.9),
	}
}

func (c *KnowledgeConceptExtraction) Name() string { return "knowledge_concept_extraction" }

// CheckResources delegates to the knowledge source.
func (c *KnowledgeConceptExtraction) CheckResources(ctx context.Context) error {
	if c.Source == nil {
		return fmt.Errorf("%w: no knowledge source configured", ontolearn.ErrMissingResource)
	}
	return c.Source.CheckResources(ctx)
}

func (c *KnowledgeConceptExtraction) Run(ctx context.Context, st ontolearn.State) error {
	created, matched, err := c.extract(ctx, st.Candidates(), st.KR())
	if err != nil {
		return err
	}
	c.report = map[string]float64{
		"candidates_matched": float64(matched),
		"concepts_created":   float64(created),
		"graph_size":         float64(st.KR().Len()),
	}
	return nil
}

func (c *KnowledgeConceptExtraction) PerformanceReport() map[string]float64 { return c.report }

func (c *KnowledgeConceptExtraction) extract(ctx context.Context, pool *kr.Pool, graph *kr.KnowledgeRepresentation) (created, matched int, err error) {
	for _, ct := range pool.All() {
		matches, err := c.Source.Match(ctx, ct.Label())
		if err != nil {
			return created, matched, fmt.Errorf("matching %q: %w", ct.Label(), err)
		}
		if len(matches) == 0 || matches[0].Score < c.MinScore.Value {
			continue
		}
		matched++

		if existing, ok := graph.ConceptByLabel(ct.Label()); ok {
			if existing.ExternalUID() == "" {
				existing.SetExternalUID(matches[0].ExternalID)
			}
			continue
		}

		concept := kr.NewConcept(ct.Label())
		concept.SetExternalUID(matches[0].ExternalID)
		concept.AddRealisation(kr.NewConceptLR(ct.Label(), ct.Occurrences()...))
		if err := graph.AddConcept(concept); err != nil {
			return created, matched, fmt.Errorf("promoting %q: %w", ct.Label(), err)
		}
		created++
	}
	return created, matched, nil
}

// Optimise implements ontolearn.Optimisable, tuning min_score by the F1
// of the promoted concept labels against the dataset's gold terms.
func (c *KnowledgeConceptExtraction) Optimise(ctx context.Context, ds *eval.Dataset, spaces ontolearn.SearchSpace) (float64, error) {
	spaces = hintSpace(spaces, map[string][]any{
		"min_score": anyValues(c.MinScore.Hint),
	})

	// Build the trial pool once: it is the same for every assignment.
	seed := kr.NewPool()
	for _, term := range ds.Terms {
		seed.Add(term)
	}

	best, score, err := ontolearn.GridSearch(spaces, func(a ontolearn.Assignment) (float64, error) {
		trial := *c
		if err := ontolearn.AssignTo(a, "min_score", &trial.MinScore); err != nil {
			return 0, err
		}
		scratch := kr.New()
		if _, _, err := trial.extract(ctx, seed, scratch); err != nil {
			return 0, err
		}
		labels := make([]string, 0, scratch.Len())
		for _, concept := range scratch.Concepts() {
			labels = append(labels, concept.Label())
		}
		return eval.Score(labels, ds.Terms).F1, nil
	})
	if err != nil {
		return 0, err
	}

	if err := ontolearn.AssignTo(best, "min_score", &c.MinScore); err != nil {
		return 0, err
	}
	return score, nil
}

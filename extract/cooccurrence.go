package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/eval"
	"github.com/mbarbier/ontolearn/kr"
)

// CooccurrenceRelationExtraction finds relations between concepts that
// co-occur within a sentence with a verb between them. The verb's lemma
// labels the relation; the mention pair plus the verb becomes the
// relation's corpus evidence. Only concepts already in the graph
// participate; the component never invents endpoints.
type CooccurrenceRelationExtraction struct {
	// Window is the maximum token distance between the two concept
	// mentions. Zero means the whole sentence.
	Window ontolearn.Tunable[int]

	report map[string]float64
}

// NewCooccurrenceRelationExtraction returns a component with a window
// of 10 tokens.
func NewCooccurrenceRelationExtraction() *CooccurrenceRelationExtraction {
	return &CooccurrenceRelationExtraction{
		Window: ontolearn.Tune(10, 5, 10, 20),
	}
}

func (c *CooccurrenceRelationExtraction) Name() string { return "cooccurrence_relation_extraction" }

func (c *CooccurrenceRelationExtraction) CheckResources(ctx context.Context) error { return nil }

func (c *CooccurrenceRelationExtraction) Run(ctx context.Context, st ontolearn.State) error {
	created, evidence, err := c.extract(st.Corpus(), st.KR())
	if err != nil {
		return err
	}
	c.report = map[string]float64{
		"relations_created": float64(created),
		"occurrences_added": float64(evidence),
		"window":            float64(c.Window.Value),
	}
	return nil
}

func (c *CooccurrenceRelationExtraction) PerformanceReport() map[string]float64 { return c.report }

// mention is one concept occurrence inside a sentence, as a token range.
type mention struct {
	concept *kr.Concept
	from    int
	to      int
}

func (c *CooccurrenceRelationExtraction) extract(docs []*corpus.Document, graph *kr.KnowledgeRepresentation) (created, evidence int, err error) {
	lookup := conceptLookup(graph)
	if len(lookup) == 0 {
		return 0, 0, nil
	}

	for _, doc := range docs {
		for si := range doc.Sentences {
			s := doc.Sentences[si]
			mentions := findMentions(doc, s, lookup)

			for i := 0; i < len(mentions); i++ {
				for j := i + 1; j < len(mentions); j++ {
					a, b := mentions[i], mentions[j]
					if a.concept == b.concept {
						continue
					}
					if c.Window.Value > 0 && b.from-a.to > c.Window.Value {
						break
					}
					verb := verbBetween(doc, a.to, b.from)
					if verb < 0 {
						continue
					}

					madeNew, err := recordRelation(graph, doc, a, b, verb)
					if err != nil {
						return created, evidence, err
					}
					if madeNew {
						created++
					}
					evidence++
				}
			}
		}
	}
	return created, evidence, nil
}

// conceptLookup maps every concept label and realisation label, as a
// lemma phrase, to its concept.
func conceptLookup(graph *kr.KnowledgeRepresentation) map[string]*kr.Concept {
	lookup := make(map[string]*kr.Concept)
	for _, concept := range graph.Concepts() {
		lookup[strings.ToLower(concept.Label())] = concept
		for _, lr := range concept.Realisations() {
			lookup[strings.ToLower(lr.Label())] = concept
		}
	}
	return lookup
}

// findMentions scans a sentence for concept mentions by maximal munch:
// at each position the longest matching lemma phrase wins.
func findMentions(doc *corpus.Document, s corpus.Sentence, lookup map[string]*kr.Concept) []mention {
	const maxPhrase = 6

	var mentions []mention
	for i := s.Start; i < s.End; {
		matched := 0
		var found *kr.Concept
		for n := maxPhrase; n >= 1; n-- {
			if i+n > s.End {
				continue
			}
			label := phraseLabel(doc, i, i+n)
			if concept, ok := lookup[label]; ok {
				matched, found = n, concept
				break
			}
		}
		if found == nil {
			i++
			continue
		}
		mentions = append(mentions, mention{concept: found, from: i, to: i + matched})
		i += matched
	}
	return mentions
}

// verbBetween returns the index of the first verb token in [from, to),
// or -1.
func verbBetween(doc *corpus.Document, from, to int) int {
	for i := from; i < to; i++ {
		if doc.Tokens[i].POS == "VERB" {
			return i
		}
	}
	return -1
}

func recordRelation(graph *kr.KnowledgeRepresentation, doc *corpus.Document, a, b mention, verb int) (bool, error) {
	label := doc.Tokens[verb].Lemma
	occ := kr.RelationOccurrence{
		Source:      doc.RangeSpan(a.from, a.to),
		Trigger:     doc.TokenSpan(verb),
		Destination: doc.RangeSpan(b.from, b.to),
	}

	for _, r := range graph.Relations() {
		if r.Label() == label && r.Source == a.concept && r.Destination == b.concept {
			r.AddRealisation(kr.NewRelationLR(label, occ))
			return false, nil
		}
	}

	rel := kr.NewRelation(label, a.concept, b.concept)
	rel.AddRealisation(kr.NewRelationLR(label, occ))
	if err := graph.AddRelation(rel); err != nil {
		return false, fmt.Errorf("relating %q to %q: %w", a.concept.Label(), b.concept.Label(), err)
	}
	return true, nil
}

// Optimise implements ontolearn.Optimisable, tuning the window by F1 of
// extracted (source, label, destination) triples against the dataset's
// gold relations. Trial graphs are seeded with the endpoint concepts of
// the gold triples.
func (c *CooccurrenceRelationExtraction) Optimise(ctx context.Context, ds *eval.Dataset, spaces ontolearn.SearchSpace) (float64, error) {
	spaces = hintSpace(spaces, map[string][]any{
		"window": anyValues(c.Window.Hint),
	})

	gold := make([]string, len(ds.Relations))
	endpoints := make(map[string]bool)
	for i, triple := range ds.Relations {
		gold[i] = strings.Join(triple[:], "|")
		endpoints[triple[0]] = true
		endpoints[triple[2]] = true
	}

	best, score, err := ontolearn.GridSearch(spaces, func(a ontolearn.Assignment) (float64, error) {
		trial := *c
		if err := ontolearn.AssignTo(a, "window", &trial.Window); err != nil {
			return 0, err
		}

		scratch := kr.New()
		for label := range endpoints {
			if err := scratch.AddConcept(kr.NewConcept(label)); err != nil {
				return 0, err
			}
		}
		if _, _, err := trial.extract(ds.Docs, scratch); err != nil {
			return 0, err
		}

		var predicted []string
		for _, r := range scratch.Relations() {
			predicted = append(predicted,
				r.Source.Label()+"|"+r.Label()+"|"+r.Destination.Label())
		}
		return eval.Score(predicted, gold).F1, nil
	})
	if err != nil {
		return 0, err
	}

	if err := ontolearn.AssignTo(best, "window", &c.Window); err != nil {
		return 0, err
	}
	return score, nil
}

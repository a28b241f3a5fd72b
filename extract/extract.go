// Package extract provides the pipeline components: term extraction,
// concept and relation extraction, enrichment, and axiom derivation.
// Components read the shared pipeline state and mutate the candidate
// pool or the knowledge representation; none of them loads or
// re-annotates the corpus.
package extract

import (
	"strings"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/kr"
)

// phrase is one candidate surface form found in a document: a
// normalised label plus the span of corpus evidence behind it.
type phrase struct {
	label string
	span  corpus.Span
}

// defaultTermPOS is the POS set treated as term material when a
// component is not configured with its own.
var defaultTermPOS = []string{"NOUN", "PROPN", "ADJ"}

func posSet(tags []string) map[string]bool {
	if len(tags) == 0 {
		tags = defaultTermPOS
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

// contentRuns returns the maximal runs of non-stop tokens with an
// allowed POS inside each sentence, as token index ranges.
func contentRuns(doc *corpus.Document, allowed map[string]bool) [][2]int {
	var runs [][2]int
	for si := range doc.Sentences {
		s := doc.Sentences[si]
		start := -1
		for i := s.Start; i < s.End; i++ {
			t := doc.Tokens[i]
			if allowed[t.POS] && !t.Stop {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				runs = append(runs, [2]int{start, i})
				start = -1
			}
		}
		if start >= 0 {
			runs = append(runs, [2]int{start, s.End})
		}
	}
	return runs
}

// runPhrases converts maximal runs into phrases, skipping runs longer
// than maxTokens. Labels join token lemmas with single spaces.
func runPhrases(doc *corpus.Document, allowed map[string]bool, maxTokens int) []phrase {
	var out []phrase
	for _, run := range contentRuns(doc, allowed) {
		n := run[1] - run[0]
		if n == 0 || (maxTokens > 0 && n > maxTokens) {
			continue
		}
		out = append(out, phrase{
			label: phraseLabel(doc, run[0], run[1]),
			span:  doc.RangeSpan(run[0], run[1]),
		})
	}
	return out
}

// subPhrases emits every contiguous sub-sequence of each maximal run,
// up to maxTokens tokens. Nested-term scoring needs the sub-sequences,
// not just the maximal runs.
func subPhrases(doc *corpus.Document, allowed map[string]bool, maxTokens int) []phrase {
	var out []phrase
	for _, run := range contentRuns(doc, allowed) {
		for from := run[0]; from < run[1]; from++ {
			for to := from + 1; to <= run[1]; to++ {
				if maxTokens > 0 && to-from > maxTokens {
					break
				}
				out = append(out, phrase{
					label: phraseLabel(doc, from, to),
					span:  doc.RangeSpan(from, to),
				})
			}
		}
	}
	return out
}

func phraseLabel(doc *corpus.Document, from, to int) string {
	parts := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		parts = append(parts, doc.Tokens[i].Lemma)
	}
	return strings.Join(parts, " ")
}

// tokenLen counts the whitespace-separated tokens of a label.
func tokenLen(label string) int {
	return len(strings.Fields(label))
}

// poolLabels returns the labels currently in a pool, for scoring.
func poolLabels(p *kr.Pool) []string {
	terms := p.All()
	labels := make([]string, len(terms))
	for i, ct := range terms {
		labels[i] = ct.Label()
	}
	return labels
}

// anyValues widens a typed hint slice into search-space values.
func anyValues[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// hintSpace assembles a search space from tunable hints when the
// caller of Optimise did not supply one.
func hintSpace(spaces ontolearn.SearchSpace, hints map[string][]any) ontolearn.SearchSpace {
	if len(spaces) > 0 {
		return spaces
	}
	out := make(ontolearn.SearchSpace)
	for name, values := range hints {
		if len(values) > 0 {
			out[name] = values
		}
	}
	return out
}

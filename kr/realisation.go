package kr

import (
	"sort"

	"github.com/mbarbier/ontolearn/corpus"
)

// A linguistic realisation ties a surface label to the places in the
// corpus where a graph entity is expressed. The occurrence shape depends
// on what is grounded: concepts occur as single spans, relations as
// (source, trigger, destination) span triples, metarelations as
// (source, destination) span pairs. The three variants are kept as
// distinct types so the shape invariant holds by construction.

// RelationOccurrence is one piece of corpus evidence for a relation.
type RelationOccurrence struct {
	Source      corpus.Span
	Trigger     corpus.Span
	Destination corpus.Span
}

// MetaRelationOccurrence is one piece of corpus evidence for a
// metarelation.
type MetaRelationOccurrence struct {
	Source      corpus.Span
	Destination corpus.Span
}

// baseLR carries the fields shared by all realisation variants. Each
// realisation owns at most one Enrichment.
type baseLR struct {
	label      string
	enrichment *Enrichment
}

// Label returns the surface text this realisation stands for.
func (b *baseLR) Label() string { return b.label }

// Enrichment returns the attached enrichment, or nil.
func (b *baseLR) Enrichment() *Enrichment { return b.enrichment }

// EnsureEnrichment returns the attached enrichment, creating an empty
// one first when needed.
func (b *baseLR) EnsureEnrichment() *Enrichment {
	if b.enrichment == nil {
		b.enrichment = NewEnrichment()
	}
	return b.enrichment
}

// ConceptLR grounds a Concept: occurrences are single token spans.
type ConceptLR struct {
	baseLR
	occurrences map[corpus.Span]struct{}
}

// NewConceptLR creates a concept realisation with the given occurrences.
func NewConceptLR(label string, occurrences ...corpus.Span) *ConceptLR {
	lr := &ConceptLR{
		baseLR:      baseLR{label: label},
		occurrences: make(map[corpus.Span]struct{}, len(occurrences)),
	}
	lr.AddOccurrences(occurrences...)
	return lr
}

// AddOccurrences records corpus evidence. Adding an occurrence that is
// already present is a no-op.
func (lr *ConceptLR) AddOccurrences(occurrences ...corpus.Span) {
	for _, o := range occurrences {
		lr.occurrences[o] = struct{}{}
	}
}

// Occurrences returns the evidence spans in deterministic order.
func (lr *ConceptLR) Occurrences() []corpus.Span {
	out := make([]corpus.Span, 0, len(lr.occurrences))
	for o := range lr.occurrences {
		out = append(out, o)
	}
	corpus.SortSpans(out)
	return out
}

// Docs derives the set of parent document IDs from the current
// occurrences. It is recomputed on every call; nothing is cached.
func (lr *ConceptLR) Docs() []string {
	seen := make(map[string]struct{}, len(lr.occurrences))
	for o := range lr.occurrences {
		seen[o.DocID] = struct{}{}
	}
	return sortedKeys(seen)
}

// RelationLR grounds a Relation: occurrences are ordered span triples.
type RelationLR struct {
	baseLR
	occurrences map[RelationOccurrence]struct{}
}

// NewRelationLR creates a relation realisation with the given occurrences.
func NewRelationLR(label string, occurrences ...RelationOccurrence) *RelationLR {
	lr := &RelationLR{
		baseLR:      baseLR{label: label},
		occurrences: make(map[RelationOccurrence]struct{}, len(occurrences)),
	}
	lr.AddOccurrences(occurrences...)
	return lr
}

// AddOccurrences records corpus evidence, ignoring duplicates.
func (lr *RelationLR) AddOccurrences(occurrences ...RelationOccurrence) {
	for _, o := range occurrences {
		lr.occurrences[o] = struct{}{}
	}
}

// Occurrences returns the evidence triples in deterministic order.
func (lr *RelationLR) Occurrences() []RelationOccurrence {
	out := make([]RelationOccurrence, 0, len(lr.occurrences))
	for o := range lr.occurrences {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessSpan(out[i].Source, out[j].Source) ||
			(out[i].Source == out[j].Source && lessSpan(out[i].Trigger, out[j].Trigger)) ||
			(out[i].Source == out[j].Source && out[i].Trigger == out[j].Trigger &&
				lessSpan(out[i].Destination, out[j].Destination))
	})
	return out
}

// Docs derives the parent document IDs from the current occurrences.
func (lr *RelationLR) Docs() []string {
	seen := make(map[string]struct{}, len(lr.occurrences))
	for o := range lr.occurrences {
		seen[o.Source.DocID] = struct{}{}
		seen[o.Trigger.DocID] = struct{}{}
		seen[o.Destination.DocID] = struct{}{}
	}
	return sortedKeys(seen)
}

// MetaRelationLR grounds a MetaRelation: occurrences are ordered span
// pairs.
type MetaRelationLR struct {
	baseLR
	occurrences map[MetaRelationOccurrence]struct{}
}

// NewMetaRelationLR creates a metarelation realisation.
func NewMetaRelationLR(label string, occurrences ...MetaRelationOccurrence) *MetaRelationLR {
	lr := &MetaRelationLR{
		baseLR:      baseLR{label: label},
		occurrences: make(map[MetaRelationOccurrence]struct{}, len(occurrences)),
	}
	lr.AddOccurrences(occurrences...)
	return lr
}

// AddOccurrences records corpus evidence, ignoring duplicates.
func (lr *MetaRelationLR) AddOccurrences(occurrences ...MetaRelationOccurrence) {
	for _, o := range occurrences {
		lr.occurrences[o] = struct{}{}
	}
}

// Occurrences returns the evidence pairs in deterministic order.
func (lr *MetaRelationLR) Occurrences() []MetaRelationOccurrence {
	out := make([]MetaRelationOccurrence, 0, len(lr.occurrences))
	for o := range lr.occurrences {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessSpan(out[i].Source, out[j].Source) ||
			(out[i].Source == out[j].Source && lessSpan(out[i].Destination, out[j].Destination))
	})
	return out
}

// Docs derives the parent document IDs from the current occurrences.
func (lr *MetaRelationLR) Docs() []string {
	seen := make(map[string]struct{}, len(lr.occurrences))
	for o := range lr.occurrences {
		seen[o.Source.DocID] = struct{}{}
		seen[o.Destination.DocID] = struct{}{}
	}
	return sortedKeys(seen)
}

func lessSpan(a, b corpus.Span) bool {
	if a.DocID != b.DocID {
		return a.DocID < b.DocID
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

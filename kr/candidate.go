package kr

import (
	"sort"

	"github.com/mbarbier/ontolearn/corpus"
)

// CandidateTerm is an extraction hypothesis that has not been promoted
// into the graph. Unlike graph entities it carries no uid: identity
// within the pool is the label, and equal-label candidates are merged.
type CandidateTerm struct {
	label       string
	occurrences map[corpus.Span]struct{}
	enrichment  *Enrichment
}

// NewCandidateTerm creates a candidate term with the given occurrences.
func NewCandidateTerm(label string, occurrences ...corpus.Span) *CandidateTerm {
	ct := &CandidateTerm{
		label:       label,
		occurrences: make(map[corpus.Span]struct{}, len(occurrences)),
	}
	ct.AddOccurrences(occurrences...)
	return ct
}

// Label returns the candidate's surface label.
func (ct *CandidateTerm) Label() string { return ct.label }

// AddOccurrences records corpus evidence, ignoring duplicates.
func (ct *CandidateTerm) AddOccurrences(occurrences ...corpus.Span) {
	for _, o := range occurrences {
		ct.occurrences[o] = struct{}{}
	}
}

// Occurrences returns the evidence spans in deterministic order.
func (ct *CandidateTerm) Occurrences() []corpus.Span {
	out := make([]corpus.Span, 0, len(ct.occurrences))
	for o := range ct.occurrences {
		out = append(out, o)
	}
	corpus.SortSpans(out)
	return out
}

// Docs derives the parent document IDs from the current occurrences.
func (ct *CandidateTerm) Docs() []string {
	seen := make(map[string]struct{}, len(ct.occurrences))
	for o := range ct.occurrences {
		seen[o.DocID] = struct{}{}
	}
	return sortedKeys(seen)
}

// Enrichment returns the attached enrichment, or nil.
func (ct *CandidateTerm) Enrichment() *Enrichment { return ct.enrichment }

// EnsureEnrichment returns the attached enrichment, creating one first
// when needed.
func (ct *CandidateTerm) EnsureEnrichment() *Enrichment {
	if ct.enrichment == nil {
		ct.enrichment = NewEnrichment()
	}
	return ct.enrichment
}

// Pool is the pipeline's shared candidate-term set. Terms are keyed by
// label; adding a label that is already present merges occurrences and
// enrichment rather than duplicating the term. Candidates stay in the
// pool after promotion so that several components can read them.
type Pool struct {
	terms map[string]*CandidateTerm
}

// NewPool returns an empty candidate-term pool.
func NewPool() *Pool {
	return &Pool{terms: make(map[string]*CandidateTerm)}
}

// Add records occurrences for a label, creating or merging the candidate
// as needed, and returns the pooled term.
func (p *Pool) Add(label string, occurrences ...corpus.Span) *CandidateTerm {
	ct, ok := p.terms[label]
	if !ok {
		ct = NewCandidateTerm(label)
		p.terms[label] = ct
	}
	ct.AddOccurrences(occurrences...)
	return ct
}

// AddTerm merges an externally built candidate into the pool and returns
// the pooled term (which may be a pre-existing one).
func (p *Pool) AddTerm(ct *CandidateTerm) *CandidateTerm {
	existing, ok := p.terms[ct.label]
	if !ok {
		p.terms[ct.label] = ct
		return ct
	}
	existing.AddOccurrences(ct.Occurrences()...)
	if ct.enrichment != nil {
		existing.EnsureEnrichment().Merge(ct.enrichment)
	}
	return existing
}

// Get returns the candidate with the given label. A missing label is a
// normal empty result, not a failure.
func (p *Pool) Get(label string) (*CandidateTerm, bool) {
	ct, ok := p.terms[label]
	return ct, ok
}

// Remove deletes a candidate by label, reporting whether it was present.
func (p *Pool) Remove(label string) bool {
	if _, ok := p.terms[label]; !ok {
		return false
	}
	delete(p.terms, label)
	return true
}

// Len returns the number of pooled candidates.
func (p *Pool) Len() int { return len(p.terms) }

// All returns the candidates sorted by label.
func (p *Pool) All() []*CandidateTerm {
	out := make([]*CandidateTerm, 0, len(p.terms))
	for _, ct := range p.terms {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].label < out[j].label })
	return out
}

package kr

// Enrichment is auxiliary semantic data attached to a realisation or a
// candidate term: synonyms at minimum, plus hypernyms, hyponyms and
// antonyms. Every add operation is an idempotent set union. The meaning
// of "synonym" is up to the knowledge source feeding it; it may be
// strict synonymy or domain-specific relatedness.
type Enrichment struct {
	synonyms  map[string]struct{}
	hypernyms map[string]struct{}
	hyponyms  map[string]struct{}
	antonyms  map[string]struct{}
}

// NewEnrichment returns an empty enrichment.
func NewEnrichment() *Enrichment {
	return &Enrichment{
		synonyms:  make(map[string]struct{}),
		hypernyms: make(map[string]struct{}),
		hyponyms:  make(map[string]struct{}),
		antonyms:  make(map[string]struct{}),
	}
}

// AddSynonyms unions the given terms into the synonym set.
func (e *Enrichment) AddSynonyms(terms ...string) { addAll(e.synonyms, terms) }

// AddHypernyms unions the given terms into the hypernym set.
func (e *Enrichment) AddHypernyms(terms ...string) { addAll(e.hypernyms, terms) }

// AddHyponyms unions the given terms into the hyponym set.
func (e *Enrichment) AddHyponyms(terms ...string) { addAll(e.hyponyms, terms) }

// AddAntonyms unions the given terms into the antonym set.
func (e *Enrichment) AddAntonyms(terms ...string) { addAll(e.antonyms, terms) }

// Synonyms returns the synonym set in sorted order.
func (e *Enrichment) Synonyms() []string { return sortedKeys(e.synonyms) }

// Hypernyms returns the hypernym set in sorted order.
func (e *Enrichment) Hypernyms() []string { return sortedKeys(e.hypernyms) }

// Hyponyms returns the hyponym set in sorted order.
func (e *Enrichment) Hyponyms() []string { return sortedKeys(e.hyponyms) }

// Antonyms returns the antonym set in sorted order.
func (e *Enrichment) Antonyms() []string { return sortedKeys(e.antonyms) }

// Merge unions another enrichment into this one in place.
func (e *Enrichment) Merge(other *Enrichment) {
	if other == nil {
		return
	}
	for t := range other.synonyms {
		e.synonyms[t] = struct{}{}
	}
	for t := range other.hypernyms {
		e.hypernyms[t] = struct{}{}
	}
	for t := range other.hyponyms {
		e.hyponyms[t] = struct{}{}
	}
	for t := range other.antonyms {
		e.antonyms[t] = struct{}{}
	}
}

func addAll(set map[string]struct{}, terms []string) {
	for _, t := range terms {
		set[t] = struct{}{}
	}
}

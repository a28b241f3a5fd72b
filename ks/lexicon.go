package ks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/kr"
)

// Entry is one lexicon record: an external concept with its related
// terms.
type Entry struct {
	ExternalID string   `json:"id"`
	Label      string   `json:"label"`
	Synonyms   []string `json:"synonyms,omitempty"`
	Hypernyms  []string `json:"hypernyms,omitempty"`
	Hyponyms   []string `json:"hyponyms,omitempty"`
	Antonyms   []string `json:"antonyms,omitempty"`
}

// Lexicon is an in-memory knowledge source matching on exact labels and
// synonyms (case-insensitive). It fits curated WordNet-style exports.
type Lexicon struct {
	name string
	// byTerm maps every lowercased label and synonym to its entries.
	byTerm map[string][]*Entry
}

// NewLexicon builds a lexicon from entries.
func NewLexicon(name string, entries ...Entry) *Lexicon {
	l := &Lexicon{name: name, byTerm: make(map[string][]*Entry)}
	for i := range entries {
		e := entries[i]
		l.index(&e)
	}
	return l
}

// LoadLexicon reads a JSON array of entries from a file. A missing or
// malformed file wraps ontolearn.ErrMissingResource.
func LoadLexicon(name, path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: lexicon %s: %v", ontolearn.ErrMissingResource, path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: lexicon %s: %v", ontolearn.ErrMissingResource, path, err)
	}
	return NewLexicon(name, entries...), nil
}

func (l *Lexicon) index(e *Entry) {
	terms := append([]string{e.Label}, e.Synonyms...)
	for _, t := range terms {
		key := strings.ToLower(t)
		l.byTerm[key] = append(l.byTerm[key], e)
	}
}

// Name implements KnowledgeSource.
func (l *Lexicon) Name() string { return l.name }

// CheckResources implements KnowledgeSource. An empty lexicon is a
// missing resource: matching against it can never succeed.
func (l *Lexicon) CheckResources(ctx context.Context) error {
	if len(l.byTerm) == 0 {
		return fmt.Errorf("%w: lexicon %s is empty", ontolearn.ErrMissingResource, l.name)
	}
	return nil
}

// Match implements KnowledgeSource. A label match scores 1.0, a synonym
// match 0.9; results come best first.
func (l *Lexicon) Match(ctx context.Context, label string) ([]Match, error) {
	key := strings.ToLower(label)
	var out []Match
	for _, e := range l.byTerm[key] {
		score := 0.9
		if strings.EqualFold(e.Label, label) {
			score = 1.0
		}
		out = append(out, Match{ExternalID: e.ExternalID, Label: e.Label, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

// Enrich implements KnowledgeSource.
func (l *Lexicon) Enrich(ctx context.Context, label string, enr *kr.Enrichment) error {
	for _, e := range l.byTerm[strings.ToLower(label)] {
		enr.AddSynonyms(e.Synonyms...)
		enr.AddHypernyms(e.Hypernyms...)
		enr.AddHyponyms(e.Hyponyms...)
		enr.AddAntonyms(e.Antonyms...)
		if !strings.EqualFold(e.Label, label) {
			enr.AddSynonyms(e.Label)
		}
	}
	return nil
}

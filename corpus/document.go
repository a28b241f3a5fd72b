// Package corpus defines the annotated-document representation the
// pipeline operates on, and the boundary to the NLP backend that
// produces it. The framework never tokenizes text itself; it consumes
// documents through the Annotator interface.
package corpus

import "sort"

// Token is a single annotated token inside a document. Start and End are
// byte offsets into the document text (half-open).
type Token struct {
	Text  string
	Lemma string
	POS   string
	Start int
	End   int
	Stop  bool // marked by stop-word preprocessing
}

// Sentence is a contiguous run of tokens, expressed as a half-open token
// index range.
type Sentence struct {
	Start int
	End   int
}

// Span identifies a contiguous sub-range of a document by byte offsets.
// It is a comparable value type so spans can be used as set members.
type Span struct {
	DocID string
	Start int
	End   int
}

// Document is an annotated corpus document. Annotations are enriched
// cumulatively by preprocessing; nothing is ever discarded.
type Document struct {
	ID        string
	Text      string
	Tokens    []Token
	Sentences []Sentence
}

// Span builds a Span for the given byte range of this document.
func (d *Document) Span(start, end int) Span {
	return Span{DocID: d.ID, Start: start, End: end}
}

// TokenSpan builds a Span covering the token at index i.
func (d *Document) TokenSpan(i int) Span {
	t := d.Tokens[i]
	return Span{DocID: d.ID, Start: t.Start, End: t.End}
}

// RangeSpan builds a Span covering tokens [from, to) by index.
func (d *Document) RangeSpan(from, to int) Span {
	return Span{DocID: d.ID, Start: d.Tokens[from].Start, End: d.Tokens[to-1].End}
}

// SpanText returns the surface text covered by a span of this document.
// Spans belonging to another document yield an empty string.
func (d *Document) SpanText(s Span) string {
	if s.DocID != d.ID || s.Start < 0 || s.End > len(d.Text) || s.Start > s.End {
		return ""
	}
	return d.Text[s.Start:s.End]
}

// SentenceTokens returns the tokens of sentence i.
func (d *Document) SentenceTokens(i int) []Token {
	s := d.Sentences[i]
	return d.Tokens[s.Start:s.End]
}

// Index provides document lookup by ID, used to resolve span evidence
// back to text.
type Index map[string]*Document

// NewIndex builds an Index from a document slice.
func NewIndex(docs []*Document) Index {
	ix := make(Index, len(docs))
	for _, d := range docs {
		ix[d.ID] = d
	}
	return ix
}

// Resolve returns the surface text of a span, or "" when the document is
// not part of the index.
func (ix Index) Resolve(s Span) string {
	d, ok := ix[s.DocID]
	if !ok {
		return ""
	}
	return d.SpanText(s)
}

// SortSpans orders spans by document ID, then start, then end. Used to
// make set iteration deterministic.
func SortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.DocID != b.DocID {
			return a.DocID < b.DocID
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
}

package corpus

import (
	"context"
	"strings"
	"unicode"
)

// Annotator is the NLP backend boundary. Implementations turn a raw text
// record into an annotated Document with token spans. The built-in
// SimpleAnnotator is a minimal stand-in; production pipelines are
// expected to plug a real tagger behind this interface.
type Annotator interface {
	Annotate(ctx context.Context, id, text string) (*Document, error)
}

// SimpleAnnotator tokenizes on whitespace and punctuation, lowercases
// lemmas, splits sentences on terminal punctuation, and assigns POS tags
// from small closed word lists (everything else defaults to NOUN).
type SimpleAnnotator struct {
	// Verbs supplements the built-in verb list; entries must be lowercase.
	Verbs []string
	// Stopwords supplements the built-in stop-word list.
	Stopwords []string
}

var defaultVerbs = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"has": true, "have": true, "had": true, "contains": true,
	"contain": true, "uses": true, "use": true, "used": true,
	"requires": true, "require": true, "defines": true, "define": true,
	"includes": true, "include": true, "produces": true, "produce": true,
	"eats": true, "eat": true, "makes": true, "make": true,
	"causes": true, "cause": true, "needs": true, "need": true,
}

var defaultStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "with": true,
	"and": true, "or": true, "but": true, "by": true, "from": true,
	"as": true, "that": true, "this": true, "these": true, "those": true,
	"it": true, "its": true, "their": true, "they": true, "not": true,
}

func (a *SimpleAnnotator) verb(word string) bool {
	if defaultVerbs[word] {
		return true
	}
	for _, v := range a.Verbs {
		if v == word {
			return true
		}
	}
	return false
}

func (a *SimpleAnnotator) stopword(word string) bool {
	if defaultStopwords[word] {
		return true
	}
	for _, s := range a.Stopwords {
		if s == word {
			return true
		}
	}
	return false
}

// Annotate implements Annotator.
func (a *SimpleAnnotator) Annotate(ctx context.Context, id, text string) (*Document, error) {
	doc := &Document{ID: id, Text: text}

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := text[start:end]
		lemma := strings.ToLower(word)
		pos := "NOUN"
		switch {
		case a.verb(lemma):
			pos = "VERB"
		case a.stopword(lemma):
			pos = "X"
		case isNumeric(word):
			pos = "NUM"
		}
		doc.Tokens = append(doc.Tokens, Token{
			Text:  word,
			Lemma: lemma,
			POS:   pos,
			Start: start,
			End:   end,
			Stop:  a.stopword(lemma),
		})
		start = -1
	}

	sentStart := 0
	closeSentence := func() {
		if len(doc.Tokens) > sentStart {
			doc.Sentences = append(doc.Sentences, Sentence{Start: sentStart, End: len(doc.Tokens)})
			sentStart = len(doc.Tokens)
		}
	}

	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			if start < 0 {
				start = i
			}
		case r == '.' || r == '!' || r == '?':
			flush(i)
			closeSentence()
		default:
			flush(i)
		}
	}
	flush(len(text))
	closeSentence()

	return doc, nil
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != ',' && r != '-' {
			return false
		}
	}
	return len(word) > 0
}

package corpus

import (
	"context"
	"strings"
	"unicode"
)

// Preprocessing components enrich annotated documents in place. They are
// run by the pipeline, in order, before any extraction component; later
// steps see the cumulative annotations of earlier ones.

// LemmaNormalizer lowercases token lemmas and folds Unicode hyphens and
// whitespace variants so downstream string matching behaves predictably.
type LemmaNormalizer struct{}

func (LemmaNormalizer) Name() string { return "lemma-normalizer" }

func (LemmaNormalizer) Process(ctx context.Context, docs []*Document) error {
	for _, d := range docs {
		for i := range d.Tokens {
			d.Tokens[i].Lemma = normalize(d.Tokens[i].Lemma)
		}
	}
	return nil
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '‐' || r == '‑' || r == '‒' || r == '–' || r == '—':
			b.WriteByte('-')
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StopwordMarker flags tokens whose lemma is in the stop list. Extraction
// components skip flagged tokens; the tokens themselves are kept.
type StopwordMarker struct {
	Stopwords []string
}

func (StopwordMarker) Name() string { return "stopword-marker" }

func (p StopwordMarker) Process(ctx context.Context, docs []*Document) error {
	stops := make(map[string]bool, len(p.Stopwords))
	for _, s := range p.Stopwords {
		stops[strings.ToLower(s)] = true
	}
	for _, d := range docs {
		for i := range d.Tokens {
			if stops[d.Tokens[i].Lemma] {
				d.Tokens[i].Stop = true
			}
		}
	}
	return nil
}

// SentenceWindower guarantees sentence annotations: documents without any
// get a single whole-document sentence, and sentences longer than
// MaxTokens are split into windows of at most that many tokens.
type SentenceWindower struct {
	MaxTokens int
}

func (SentenceWindower) Name() string { return "sentence-windower" }

func (p SentenceWindower) Process(ctx context.Context, docs []*Document) error {
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 64
	}
	for _, d := range docs {
		if len(d.Sentences) == 0 && len(d.Tokens) > 0 {
			d.Sentences = []Sentence{{Start: 0, End: len(d.Tokens)}}
		}
		var out []Sentence
		for _, s := range d.Sentences {
			for from := s.Start; from < s.End; from += maxTokens {
				to := from + maxTokens
				if to > s.End {
					to = s.End
				}
				out = append(out, Sentence{Start: from, End: to})
			}
		}
		d.Sentences = out
	}
	return nil
}

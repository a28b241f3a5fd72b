package corpus

import (
	"context"
	"testing"
)

func annotate(t *testing.T, text string) *Document {
	t.Helper()
	ann := &SimpleAnnotator{}
	doc, err := ann.Annotate(context.Background(), "test.txt", text)
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	return doc
}

func TestAnnotateTokensAndSpans(t *testing.T) {
	doc := annotate(t, "The cell produces energy.")

	want := []struct {
		text, lemma, pos string
	}{
		{"The", "the", "X"},
		{"cell", "cell", "NOUN"},
		{"produces", "produces", "VERB"},
		{"energy", "energy", "NOUN"},
	}
	if len(doc.Tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(doc.Tokens), len(want))
	}
	for i, w := range want {
		tok := doc.Tokens[i]
		if tok.Text != w.text || tok.Lemma != w.lemma || tok.POS != w.pos {
			t.Errorf("token %d = %q/%q/%q, want %q/%q/%q",
				i, tok.Text, tok.Lemma, tok.POS, w.text, w.lemma, w.pos)
		}
		if got := doc.Text[tok.Start:tok.End]; got != tok.Text {
			t.Errorf("token %d span covers %q, want %q", i, got, tok.Text)
		}
	}
	if !doc.Tokens[0].Stop {
		t.Error("stopword not flagged")
	}
	if doc.Tokens[1].Stop {
		t.Error("content word flagged as stop")
	}
}

func TestAnnotateSentenceSplit(t *testing.T) {
	doc := annotate(t, "Cats eat mice. Mice eat cheese!")
	if len(doc.Sentences) != 2 {
		t.Fatalf("got %d sentences, want 2", len(doc.Sentences))
	}
	first := doc.SentenceTokens(0)
	if len(first) != 3 || first[0].Text != "Cats" {
		t.Fatalf("first sentence tokens = %v", first)
	}
	second := doc.SentenceTokens(1)
	if len(second) != 3 || second[2].Text != "cheese" {
		t.Fatalf("second sentence tokens = %v", second)
	}
}

func TestAnnotateTrailingSentenceWithoutTerminator(t *testing.T) {
	doc := annotate(t, "cats eat mice")
	if len(doc.Sentences) != 1 {
		t.Fatalf("got %d sentences, want 1", len(doc.Sentences))
	}
	if len(doc.Tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(doc.Tokens))
	}
}

func TestAnnotateNumbers(t *testing.T) {
	doc := annotate(t, "the engine uses 42 valves and 7 pumps.")
	var nums []string
	for _, tok := range doc.Tokens {
		if tok.POS == "NUM" {
			nums = append(nums, tok.Text)
		}
	}
	if len(nums) != 2 || nums[0] != "42" || nums[1] != "7" {
		t.Fatalf("NUM tokens = %v", nums)
	}
}

func TestAnnotateCustomLists(t *testing.T) {
	ann := &SimpleAnnotator{Verbs: []string{"divides"}, Stopwords: []string{"via"}}
	doc, err := ann.Annotate(context.Background(), "t", "the cell divides via mitosis.")
	if err != nil {
		t.Fatal(err)
	}
	byText := make(map[string]Token)
	for _, tok := range doc.Tokens {
		byText[tok.Text] = tok
	}
	if byText["divides"].POS != "VERB" {
		t.Fatalf("custom verb tagged %s", byText["divides"].POS)
	}
	if !byText["via"].Stop {
		t.Fatal("custom stopword not flagged")
	}
}

func TestSpanText(t *testing.T) {
	doc := annotate(t, "stem cell")
	s := doc.Span(0, 9)
	if got := doc.SpanText(s); got != "stem cell" {
		t.Fatalf("SpanText = %q", got)
	}
	if got := doc.SpanText(Span{DocID: "other", Start: 0, End: 4}); got != "" {
		t.Fatalf("span of foreign doc resolved to %q", got)
	}
	if got := doc.SpanText(Span{DocID: doc.ID, Start: 0, End: 999}); got != "" {
		t.Fatalf("out-of-range span resolved to %q", got)
	}
}

func TestRangeSpan(t *testing.T) {
	doc := annotate(t, "the stem cell produces energy.")
	s := doc.RangeSpan(1, 3)
	if got := doc.SpanText(s); got != "stem cell" {
		t.Fatalf("RangeSpan text = %q", got)
	}
	ts := doc.TokenSpan(3)
	if got := doc.SpanText(ts); got != "produces" {
		t.Fatalf("TokenSpan text = %q", got)
	}
}

func TestIndexResolve(t *testing.T) {
	a := annotate(t, "stem cell")
	ix := NewIndex([]*Document{a})
	if got := ix.Resolve(a.Span(0, 4)); got != "stem" {
		t.Fatalf("Resolve = %q", got)
	}
	if got := ix.Resolve(Span{DocID: "missing", Start: 0, End: 4}); got != "" {
		t.Fatalf("Resolve of unknown doc = %q", got)
	}
}

func TestLemmaNormalizer(t *testing.T) {
	doc := &Document{
		ID:   "t",
		Text: "Self‑Renewal",
		Tokens: []Token{
			{Text: "Self‑Renewal", Lemma: "Self‑Renewal", Start: 0, End: len("Self‑Renewal")},
		},
	}
	if err := (LemmaNormalizer{}).Process(context.Background(), []*Document{doc}); err != nil {
		t.Fatal(err)
	}
	if got := doc.Tokens[0].Lemma; got != "self-renewal" {
		t.Fatalf("lemma = %q, want %q", got, "self-renewal")
	}
}

func TestStopwordMarker(t *testing.T) {
	doc := annotate(t, "analysis via microscope")
	p := StopwordMarker{Stopwords: []string{"VIA"}}
	if err := p.Process(context.Background(), []*Document{doc}); err != nil {
		t.Fatal(err)
	}
	if !doc.Tokens[1].Stop {
		t.Fatal("marker did not flag configured word")
	}
	if doc.Tokens[0].Stop || doc.Tokens[2].Stop {
		t.Fatal("marker flagged unrelated tokens")
	}
}

func TestSentenceWindowerAddsMissingSentence(t *testing.T) {
	doc := annotate(t, "cats eat mice")
	doc.Sentences = nil
	if err := (SentenceWindower{}).Process(context.Background(), []*Document{doc}); err != nil {
		t.Fatal(err)
	}
	if len(doc.Sentences) != 1 || doc.Sentences[0].End != 3 {
		t.Fatalf("sentences = %v", doc.Sentences)
	}
}

func TestSentenceWindowerSplitsLongSentences(t *testing.T) {
	doc := annotate(t, "one two three four five")
	if err := (SentenceWindower{MaxTokens: 2}).Process(context.Background(), []*Document{doc}); err != nil {
		t.Fatal(err)
	}
	want := []Sentence{{0, 2}, {2, 4}, {4, 5}}
	if len(doc.Sentences) != len(want) {
		t.Fatalf("sentences = %v, want %v", doc.Sentences, want)
	}
	for i, s := range doc.Sentences {
		if s != want[i] {
			t.Fatalf("sentences[%d] = %v, want %v", i, s, want[i])
		}
	}
}

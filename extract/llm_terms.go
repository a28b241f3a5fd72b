package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/llm"
)

const llmTermPrompt = `You are a terminology extractor. Given a document,
list the domain-specific terms it contains. Respond with a JSON object
of the form {"terms": ["term", ...]} and nothing else. Terms must appear
verbatim in the document.`

// LLMTermExtraction asks a language model for the domain terms of each
// document, then grounds every reported term back to corpus spans.
// Terms the model invents (absent from the document text) are dropped.
type LLMTermExtraction struct {
	Provider llm.Provider
	// Model overrides the provider's configured model when set.
	Model string
	// Temperature for the extraction calls. Zero keeps answers stable.
	Temperature float64

	report map[string]float64
}

// NewLLMTermExtraction returns a component using the given provider.
func NewLLMTermExtraction(p llm.Provider) *LLMTermExtraction {
	return &LLMTermExtraction{Provider: p}
}

func (c *LLMTermExtraction) Name() string { return "llm_term_extraction" }

// CheckResources verifies the language model is reachable. An absent or
// unreachable provider wraps ErrMissingResource so skip policies apply.
func (c *LLMTermExtraction) CheckResources(ctx context.Context) error {
	if c.Provider == nil {
		return fmt.Errorf("%w: no llm provider configured", ontolearn.ErrMissingResource)
	}
	if err := c.Provider.Check(ctx); err != nil {
		return fmt.Errorf("%w: %v", ontolearn.ErrMissingResource, err)
	}
	return nil
}

func (c *LLMTermExtraction) Run(ctx context.Context, st ontolearn.State) error {
	extracted, grounded := 0, 0
	for _, doc := range st.Corpus() {
		terms, err := c.termsFor(ctx, doc)
		if err != nil {
			return fmt.Errorf("extracting terms from %s: %w", doc.ID, err)
		}
		extracted += len(terms)

		for _, term := range terms {
			spans := groundTerm(doc, term)
			if len(spans) == 0 {
				continue
			}
			grounded++
			st.Candidates().Add(strings.ToLower(term), spans...)
		}
	}
	c.report = map[string]float64{
		"terms_reported": float64(extracted),
		"terms_grounded": float64(grounded),
		"pool_size":      float64(st.Candidates().Len()),
	}
	return nil
}

func (c *LLMTermExtraction) PerformanceReport() map[string]float64 { return c.report }

func (c *LLMTermExtraction) termsFor(ctx context.Context, doc *corpus.Document) ([]string, error) {
	resp, err := c.Provider.Chat(ctx, llm.ChatRequest{
		Model:          c.Model,
		Temperature:    c.Temperature,
		ResponseFormat: "json_object",
		Messages: []llm.Message{
			{Role: "system", Content: llmTermPrompt},
			{Role: "user", Content: doc.Text},
		},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Terms []string `json:"terms"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		return nil, fmt.Errorf("model returned malformed term list: %w", err)
	}
	return parsed.Terms, nil
}

// groundTerm finds every case-insensitive occurrence of term in the
// document text and returns the matching spans. Folding is restricted
// to ASCII so byte offsets into the original text stay valid; Unicode
// case mappings such as U+0130 can change the byte length.
func groundTerm(doc *corpus.Document, term string) []corpus.Span {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	lower := foldASCII(doc.Text)
	needle := foldASCII(term)

	var spans []corpus.Span
	for from := 0; ; {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		spans = append(spans, doc.Span(start, start+len(needle)))
		from = start + len(needle)
	}
	return spans
}

// foldASCII lowercases the ASCII letters of s, leaving every other
// byte untouched. len(foldASCII(s)) == len(s) always holds.
func foldASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c + 'a' - 'A'
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}

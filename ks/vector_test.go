//go:build cgo

package ks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/kr"
)

// hashEmbedder is a deterministic stand-in: identical texts embed
// identically, different texts land apart.
type hashEmbedder struct{ dim int }

func (h hashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, h.dim)
		for j, r := range text {
			v[j%h.dim] += float32(r) / 1000
		}
		out[i] = v
	}
	return out, nil
}

func newTestVectorSource(t *testing.T) *VectorSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vec.db")
	v, err := NewVectorSource("test", path, 4, hashEmbedder{dim: 4})
	if err != nil {
		t.Fatalf("creating vector source: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func TestVectorSourceMatch(t *testing.T) {
	v := newTestVectorSource(t)
	ctx := context.Background()

	entries := []Entry{
		{ExternalID: "ex:cat", Label: "cat", Hypernyms: []string{"animal"}},
		{ExternalID: "ex:dog", Label: "dog"},
		{ExternalID: "ex:carburettor", Label: "carburettor"},
	}
	for _, e := range entries {
		if err := v.Add(ctx, e); err != nil {
			t.Fatalf("Add(%s): %v", e.Label, err)
		}
	}

	matches, err := v.Match(ctx, "cat")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no matches for an indexed label")
	}
	if matches[0].ExternalID != "ex:cat" {
		t.Errorf("best match = %+v, want ex:cat", matches[0])
	}
	if matches[0].Score <= 0 || matches[0].Score > 1 {
		t.Errorf("score = %v, want (0, 1]", matches[0].Score)
	}
}

func TestVectorSourceReAdd(t *testing.T) {
	v := newTestVectorSource(t)
	ctx := context.Background()

	if err := v.Add(ctx, Entry{ExternalID: "ex:cat", Label: "cat"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := v.Add(ctx, Entry{ExternalID: "ex:dog", Label: "dog"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Re-adding an existing external id updates the entry in place.
	err := v.Add(ctx, Entry{ExternalID: "ex:cat", Label: "house cat", Synonyms: []string{"feline"}})
	if err != nil {
		t.Fatalf("re-Add: %v", err)
	}

	var n int
	if err := v.db.QueryRow("SELECT count(*) FROM entries").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("got %d entries after re-Add, want 2", n)
	}

	matches, err := v.Match(ctx, "house cat")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(matches) == 0 || matches[0].ExternalID != "ex:cat" || matches[0].Label != "house cat" {
		t.Fatalf("matches = %+v, want updated ex:cat first", matches)
	}

	e := kr.NewEnrichment()
	if err := v.Enrich(ctx, "house cat", e); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got := e.Synonyms(); len(got) != 1 || got[0] != "feline" {
		t.Errorf("synonyms after re-Add = %v", got)
	}
}

func TestVectorSourceMaxDistance(t *testing.T) {
	v := newTestVectorSource(t)
	ctx := context.Background()

	if err := v.Add(ctx, Entry{ExternalID: "ex:cat", Label: "cat"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	v.MaxDistance = 1e-6

	matches, err := v.Match(ctx, "completely different text")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("distant neighbour passed the cutoff: %+v", matches)
	}
}

func TestVectorSourceEnrich(t *testing.T) {
	v := newTestVectorSource(t)
	ctx := context.Background()

	err := v.Add(ctx, Entry{
		ExternalID: "ex:cat",
		Label:      "cat",
		Synonyms:   []string{"feline"},
		Hypernyms:  []string{"animal"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	e := kr.NewEnrichment()
	if err := v.Enrich(ctx, "cat", e); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got := e.Synonyms(); len(got) != 1 || got[0] != "feline" {
		t.Errorf("synonyms = %v", got)
	}
	if got := e.Hypernyms(); len(got) != 1 || got[0] != "animal" {
		t.Errorf("hypernyms = %v", got)
	}
}

func TestVectorSourceCheckResources(t *testing.T) {
	v := newTestVectorSource(t)
	ctx := context.Background()

	err := v.CheckResources(ctx)
	if !errors.Is(err, ontolearn.ErrMissingResource) {
		t.Errorf("empty index: got %v, want ErrMissingResource", err)
	}

	if err := v.Add(ctx, Entry{ExternalID: "ex:cat", Label: "cat"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := v.CheckResources(ctx); err != nil {
		t.Errorf("populated index: %v", err)
	}
}

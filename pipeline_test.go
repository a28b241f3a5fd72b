package ontolearn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/kr"
	"github.com/mbarbier/ontolearn/loader"
)

type fakeComponent struct {
	name     string
	checkErr error
	runErr   error
	report   map[string]float64
	onRun    func(st State)
	runs     *[]string
}

func (f *fakeComponent) Name() string                             { return f.name }
func (f *fakeComponent) CheckResources(ctx context.Context) error { return f.checkErr }
func (f *fakeComponent) PerformanceReport() map[string]float64    { return f.report }
func (f *fakeComponent) Run(ctx context.Context, st State) error {
	if f.runs != nil {
		*f.runs = append(*f.runs, f.name)
	}
	if f.onRun != nil {
		f.onRun(st)
	}
	return f.runErr
}

type fakePreprocessor struct {
	name string
	runs *[]string
}

func (f *fakePreprocessor) Name() string { return f.name }
func (f *fakePreprocessor) Process(ctx context.Context, docs []*corpus.Document) error {
	*f.runs = append(*f.runs, f.name)
	return nil
}

func annotated(t *testing.T, id, text string) *corpus.Document {
	t.Helper()
	a := &corpus.SimpleAnnotator{}
	doc, err := a.Annotate(context.Background(), id, text)
	if err != nil {
		t.Fatalf("annotating: %v", err)
	}
	return doc
}

func TestNewRequiresCorpusSource(t *testing.T) {
	_, err := New(DefaultConfig())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("got %v, want ErrEmptyCorpus", err)
	}
}

func TestRunBeforeBuild(t *testing.T) {
	p, err := New(DefaultConfig(), WithCorpus(annotated(t, "d1", "cats eat mice.")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Run(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("got %v, want ErrNotReady", err)
	}

	// State is queryable before Build: the graph starts empty.
	if p.KR().Len() != 0 {
		t.Errorf("fresh pipeline KR has %d concepts", p.KR().Len())
	}
}

func TestComponentSequencing(t *testing.T) {
	var order []string
	p, err := New(DefaultConfig(),
		WithCorpus(annotated(t, "d1", "cats eat mice.")),
		WithComponents(
			&fakeComponent{name: "first", runs: &order},
			&fakeComponent{name: "second", runs: &order},
			&fakeComponent{name: "third", runs: &order},
		),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ran %v, want %v", order, want)
		}
	}
}

func TestSkipUnavailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipUnavailable = true

	var order []string
	missing := fmt.Errorf("%w: tagger model not installed", ErrMissingResource)
	p, err := New(cfg,
		WithCorpus(annotated(t, "d1", "cats eat mice.")),
		WithComponents(
			&fakeComponent{name: "unavailable", checkErr: missing, runs: &order},
			&fakeComponent{name: "available", runs: &order},
		),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 1 || order[0] != "available" {
		t.Fatalf("ran %v, want only the available component", order)
	}
}

func TestCheckFailureAbortsWithoutSkip(t *testing.T) {
	missing := fmt.Errorf("%w: tagger model not installed", ErrMissingResource)
	var order []string
	p, err := New(DefaultConfig(),
		WithCorpus(annotated(t, "d1", "cats eat mice.")),
		WithComponents(
			&fakeComponent{name: "unavailable", checkErr: missing, runs: &order},
			&fakeComponent{name: "never", runs: &order},
		),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	err = p.Run(context.Background())
	if !errors.Is(err, ErrMissingResource) {
		t.Fatalf("got %v, want ErrMissingResource", err)
	}
	if len(order) != 0 {
		t.Errorf("components ran after abort: %v", order)
	}
}

func TestRunFailureKeepsPriorState(t *testing.T) {
	boom := errors.New("extraction failed")
	p, err := New(DefaultConfig(),
		WithCorpus(annotated(t, "d1", "cats eat mice.")),
		WithComponents(
			&fakeComponent{name: "adder", onRun: func(st State) {
				_ = st.KR().AddConcept(kr.NewConcept("cat"))
			}},
			&fakeComponent{name: "failer", runErr: boom},
		),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := p.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped run error", err)
	}
	// Work done by components before the failure stays applied.
	if _, ok := p.KR().ConceptByLabel("cat"); !ok {
		t.Errorf("concept added before the failure was lost")
	}
}

func TestBuildRunsPreprocessorsInOrder(t *testing.T) {
	var order []string
	p, err := New(DefaultConfig(),
		WithCorpus(annotated(t, "d1", "cats eat mice.")),
		WithPreprocessors(
			&fakePreprocessor{name: "normalise", runs: &order},
			&fakePreprocessor{name: "window", runs: &order},
		),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(order) != 2 || order[0] != "normalise" || order[1] != "window" {
		t.Fatalf("preprocessors ran %v", order)
	}
}

func TestBuildLoadsAndAnnotates(t *testing.T) {
	recs := []loader.Record{
		{ID: "a", Text: "cats eat mice."},
		{ID: "b", Text: "dogs chase cats."},
		{ID: "c", Text: "mice fear cats."},
	}

	cfg := DefaultConfig()
	cfg.MaxDocs = 2
	p, err := New(cfg, WithCorpusLoader(staticLoader(recs)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	docs := p.Corpus()
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want MaxDocs cap of 2", len(docs))
	}
	if len(docs[0].Tokens) == 0 || len(docs[0].Sentences) == 0 {
		t.Errorf("document not annotated: %+v", docs[0])
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	p, err := New(DefaultConfig(), WithCorpusLoader(staticLoader(nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("got %v, want ErrEmptyCorpus", err)
	}
}

func TestBuildLoaderFailure(t *testing.T) {
	p, err := New(DefaultConfig(), WithCorpusLoader(&loader.TextCorpusLoader{Path: "/nonexistent"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); !errors.Is(err, ErrLoad) {
		t.Fatalf("got %v, want ErrLoad", err)
	}
}

func TestRemoveComponent(t *testing.T) {
	p, err := New(DefaultConfig(),
		WithCorpus(annotated(t, "d1", "cats eat mice.")),
		WithComponents(&fakeComponent{name: "only"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !p.RemoveComponent("only") {
		t.Errorf("RemoveComponent(only) = false")
	}
	if p.RemoveComponent("only") {
		t.Errorf("second RemoveComponent(only) = true")
	}
	if p.RemoveComponent("absent") {
		t.Errorf("RemoveComponent(absent) = true")
	}
}

func TestReportsCollected(t *testing.T) {
	p, err := New(DefaultConfig(),
		WithCorpus(annotated(t, "d1", "cats eat mice.")),
		WithComponents(
			&fakeComponent{name: "scored", report: map[string]float64{"terms": 3}},
			&fakeComponent{name: "silent"},
		),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := p.Reports()["scored"]["terms"]; got != 3 {
		t.Errorf("scored report = %v", p.Reports()["scored"])
	}
	if _, ok := p.Reports()["silent"]; ok {
		t.Errorf("component without report appears in Reports")
	}
}

type staticLoader []loader.Record

func (s staticLoader) Load(ctx context.Context) ([]loader.Record, error) {
	return s, nil
}

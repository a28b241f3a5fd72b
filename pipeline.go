// Package ontolearn orchestrates ontology-learning pipelines: a corpus
// is loaded and annotated once, then an ordered sequence of components
// builds up a knowledge representation of concepts, relations, and
// metarelations from it.
package ontolearn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/kr"
	"github.com/mbarbier/ontolearn/loader"
)

// Pipeline owns the shared state of an ontology-learning run: the
// annotated corpus, the knowledge representation under construction,
// and the candidate-term pool. Components mutate that state in the
// order they were added. A Pipeline is not safe for concurrent use.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger

	loader    loader.CorpusLoader
	annotator corpus.Annotator
	seeded    []*corpus.Document

	preprocessors []Preprocessor
	components    []Component

	docs       []*corpus.Document
	knowledge  *kr.KnowledgeRepresentation
	candidates *kr.Pool
	reports    map[string]map[string]float64

	built bool
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithCorpusLoader sets the loader used by Build to read raw records.
func WithCorpusLoader(l loader.CorpusLoader) Option {
	return func(p *Pipeline) { p.loader = l }
}

// WithAnnotator replaces the annotator used to turn raw records into
// annotated documents. The default is a corpus.SimpleAnnotator.
func WithAnnotator(a corpus.Annotator) Option {
	return func(p *Pipeline) { p.annotator = a }
}

// WithCorpus seeds the pipeline with pre-annotated documents, bypassing
// loading and annotation for them.
func WithCorpus(docs ...*corpus.Document) Option {
	return func(p *Pipeline) { p.seeded = append(p.seeded, docs...) }
}

// WithSeedKR starts the pipeline from an existing knowledge
// representation instead of an empty one.
func WithSeedKR(k *kr.KnowledgeRepresentation) Option {
	return func(p *Pipeline) { p.knowledge = k }
}

// WithComponents appends components in execution order.
func WithComponents(cs ...Component) Option {
	return func(p *Pipeline) { p.components = append(p.components, cs...) }
}

// WithPreprocessors appends preprocessors in execution order.
func WithPreprocessors(ps ...Preprocessor) Option {
	return func(p *Pipeline) { p.preprocessors = append(p.preprocessors, ps...) }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline. At least one corpus source is required:
// either a loader (WithCorpusLoader) or seeded documents (WithCorpus).
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg:        cfg,
		logger:     slog.Default(),
		annotator:  &corpus.SimpleAnnotator{},
		candidates: kr.NewPool(),
		reports:    make(map[string]map[string]float64),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.knowledge == nil {
		p.knowledge = kr.New()
	}
	if p.loader == nil && len(p.seeded) == 0 {
		return nil, fmt.Errorf("%w: no corpus loader and no seeded documents", ErrEmptyCorpus)
	}
	return p, nil
}

// Build loads and annotates the corpus, then runs the preprocessors in
// order. It must be called once before Run. Loader failures wrap
// ErrLoad and are fatal; an empty resulting corpus fails with
// ErrEmptyCorpus.
func (p *Pipeline) Build(ctx context.Context) error {
	docs := append([]*corpus.Document(nil), p.seeded...)

	if p.loader != nil {
		records, err := p.loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("loading corpus: %w", err)
		}
		for _, rec := range records {
			if p.cfg.MaxDocs > 0 && len(docs) >= p.cfg.MaxDocs {
				break
			}
			doc, err := p.annotator.Annotate(ctx, rec.ID, rec.Text)
			if err != nil {
				return fmt.Errorf("annotating %s: %w", rec.ID, err)
			}
			docs = append(docs, doc)
		}
	}
	if p.cfg.MaxDocs > 0 && len(docs) > p.cfg.MaxDocs {
		docs = docs[:p.cfg.MaxDocs]
	}
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	for _, pre := range p.preprocessors {
		if err := pre.Process(ctx, docs); err != nil {
			return fmt.Errorf("preprocessor %s: %w", pre.Name(), err)
		}
		p.logger.Debug("preprocessor done", "name", pre.Name(), "docs", len(docs))
	}

	p.docs = docs
	p.built = true
	p.logger.Info("pipeline built", "docs", len(docs), "language", p.cfg.Language)
	return nil
}

// Run executes all components in order against the shared state. Each
// component's resource check runs immediately before its Run; when
// SkipUnavailable is set, a check failing with ErrMissingResource skips
// the component with a warning instead of aborting. Any other failure
// aborts the run, leaving state as the last successful component left
// it.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.built {
		return ErrNotReady
	}
	for _, c := range p.components {
		if err := c.CheckResources(ctx); err != nil {
			if p.cfg.SkipUnavailable && errors.Is(err, ErrMissingResource) {
				p.logger.Warn("skipping component, resources unavailable",
					"component", c.Name(), "error", err)
				continue
			}
			return fmt.Errorf("component %s: %w", c.Name(), err)
		}
		if err := c.Run(ctx, p); err != nil {
			return fmt.Errorf("component %s: %w", c.Name(), err)
		}
		if report := c.PerformanceReport(); report != nil {
			p.reports[c.Name()] = report
		}
		p.logger.Info("component done",
			"component", c.Name(),
			"concepts", p.knowledge.Len(),
			"candidates", p.candidates.Len())
	}
	return nil
}

// AddComponent appends a component to the execution order.
func (p *Pipeline) AddComponent(c Component) {
	p.components = append(p.components, c)
}

// RemoveComponent removes the first component with the given name and
// reports whether one was found.
func (p *Pipeline) RemoveComponent(name string) bool {
	for i, c := range p.components {
		if c.Name() == name {
			p.components = append(p.components[:i], p.components[i+1:]...)
			return true
		}
	}
	return false
}

// AddPreprocessor appends a preprocessor to the build order.
func (p *Pipeline) AddPreprocessor(pre Preprocessor) {
	p.preprocessors = append(p.preprocessors, pre)
}

// RemovePreprocessor removes the first preprocessor with the given name
// and reports whether one was found.
func (p *Pipeline) RemovePreprocessor(name string) bool {
	for i, pre := range p.preprocessors {
		if pre.Name() == name {
			p.preprocessors = append(p.preprocessors[:i], p.preprocessors[i+1:]...)
			return true
		}
	}
	return false
}

// Corpus implements State.
func (p *Pipeline) Corpus() []*corpus.Document { return p.docs }

// KR implements State.
func (p *Pipeline) KR() *kr.KnowledgeRepresentation { return p.knowledge }

// Candidates implements State.
func (p *Pipeline) Candidates() *kr.Pool { return p.candidates }

// Reports returns the performance reports collected during Run, keyed
// by component name. Components that did not produce a report are
// absent.
func (p *Pipeline) Reports() map[string]map[string]float64 { return p.reports }

package ontolearn

import (
	"context"

	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/eval"
	"github.com/mbarbier/ontolearn/kr"
)

// State is the capability surface a component gets while running: the
// annotated corpus, the knowledge representation, and the shared
// candidate-term pool. Components receive it per invocation and never
// own it. The Pipeline implements State.
type State interface {
	Corpus() []*corpus.Document
	KR() *kr.KnowledgeRepresentation
	Candidates() *kr.Pool
}

// Component is one unit of extraction or enrichment work in a pipeline.
//
// CheckResources verifies required external assets before Run; a failed
// check wraps ErrMissingResource. Run mutates the shared state in place
// and must leave the graph invariants intact on success.
// PerformanceReport returns the metrics computed by the component's last
// Run; before any Run it returns nil.
type Component interface {
	Name() string
	CheckResources(ctx context.Context) error
	Run(ctx context.Context, st State) error
	PerformanceReport() map[string]float64
}

// Optimisable is implemented by components whose options can be tuned.
// Optimise grid-searches the supplied spaces against the evaluation
// dataset using the component's own metric, permanently installs the
// best-scoring option values, and returns the best score. It runs the
// component's logic in isolation and never touches a live pipeline's
// knowledge representation.
type Optimisable interface {
	Component
	Optimise(ctx context.Context, ds *eval.Dataset, spaces SearchSpace) (float64, error)
}

// Preprocessor enriches annotated documents in place before the main
// components run. Preprocessors are ordered: each sees the cumulative
// annotations left by its predecessors, and none discards annotations.
type Preprocessor interface {
	Name() string
	Process(ctx context.Context, docs []*corpus.Document) error
}

// Tunable wraps a component option: a configuration field whose value
// optimisation may rewrite. Plain struct fields are fixed parameters;
// fields declared as Tunable are the component's search dimensions.
type Tunable[T any] struct {
	Value T
	// Hint is an optional default search space used when the caller of
	// Optimise does not supply one for this option.
	Hint []T
}

// Tune returns a Tunable with the given initial value.
func Tune[T any](value T, hint ...T) Tunable[T] {
	return Tunable[T]{Value: value, Hint: hint}
}

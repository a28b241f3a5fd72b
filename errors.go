package ontolearn

import (
	"errors"

	"github.com/mbarbier/ontolearn/loader"
)

var (
	// ErrMissingResource is returned when a component's required external
	// asset (model, lexicon, knowledge source) is unavailable.
	ErrMissingResource = errors.New("ontolearn: missing external resource")

	// ErrLoad is returned when the corpus source is unreadable or
	// malformed. It is fatal to Build. It is the loader package's
	// sentinel, re-exported so callers only need this package for error
	// kind checks.
	ErrLoad = loader.ErrLoad

	// ErrNotReady is returned when Run is called on a pipeline that was
	// never built. This is a programmer error.
	ErrNotReady = errors.New("ontolearn: pipeline not built")

	// ErrEmptyCorpus is returned when building leaves the pipeline with
	// no documents to process.
	ErrEmptyCorpus = errors.New("ontolearn: empty corpus")

	// ErrEmptySearchSpace is returned when Optimise is invoked with no
	// candidate values to search.
	ErrEmptySearchSpace = errors.New("ontolearn: empty search space")

	// ErrBadOption is returned when a search-space value does not match
	// the type of the option it targets, or names an unknown option.
	ErrBadOption = errors.New("ontolearn: invalid option value")
)

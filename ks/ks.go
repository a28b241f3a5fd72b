// Package ks defines the knowledge-source boundary: external resources
// (lexicons, embedding indexes) that components consult to match
// extracted terms against known concepts and to enrich them with
// related terms. Components own how matches are applied; sources only
// answer queries.
package ks

import (
	"context"

	"github.com/mbarbier/ontolearn/kr"
)

// Match is one external concept a source considers equivalent or close
// to a queried label. Score is source-specific but higher is better.
type Match struct {
	ExternalID string
	Label      string
	Score      float64
}

// KnowledgeSource answers concept-matching and enrichment queries
// against an external resource.
type KnowledgeSource interface {
	Name() string

	// CheckResources verifies the backing resource is usable. Failures
	// wrap ontolearn.ErrMissingResource so pipelines can apply their
	// skip policy.
	CheckResources(ctx context.Context) error

	// Match returns external concepts matching the given label, best
	// first. No match is an empty slice, not an error.
	Match(ctx context.Context, label string) ([]Match, error)

	// Enrich adds the source's related terms for label into e.
	Enrich(ctx context.Context, label string, e *kr.Enrichment) error
}

// Package kr holds the knowledge-representation data model: concepts,
// relations and metarelations grounded in corpus evidence through
// linguistic realisations, plus the pre-promotion candidate-term pool.
package kr

import (
	"sort"

	"github.com/google/uuid"
)

// Element is the common surface of graph entities. Concepts, Relations
// and MetaRelations all carry a unique immutable uid, an optional
// caller-supplied external uid, and a display label.
type Element interface {
	UID() string
	Label() string
}

// container is the shared record embedded by every graph entity.
type container struct {
	uid         string
	externalUID string
	label       string
}

func newContainer(label string) container {
	return container{uid: uuid.NewString(), label: label}
}

// UID returns the unique identifier assigned at creation. It never
// changes and is never reused.
func (c *container) UID() string { return c.uid }

// ExternalUID returns the optional stable identifier used for cross-run
// linking, or "" when none was set.
func (c *container) ExternalUID() string { return c.externalUID }

// SetExternalUID records a caller-supplied stable identifier.
func (c *container) SetExternalUID(uid string) { c.externalUID = uid }

// Label returns the display label.
func (c *container) Label() string { return c.label }

// SetLabel changes the display label. The uid is unaffected.
func (c *container) SetLabel(label string) { c.label = label }

// Concept is a graph node representing a domain entity class. Its
// linguistic realisations tie it to single-span corpus occurrences.
type Concept struct {
	container
	realisations map[string]*ConceptLR
}

// NewConcept creates a Concept with a fresh uid.
func NewConcept(label string) *Concept {
	return &Concept{
		container:    newContainer(label),
		realisations: make(map[string]*ConceptLR),
	}
}

// RestoreConcept rebuilds a previously persisted Concept, keeping its
// original uid. Only persistence layers should use this.
func RestoreConcept(uid, label string) *Concept {
	return &Concept{
		container:    container{uid: uid, label: label},
		realisations: make(map[string]*ConceptLR),
	}
}

// AddRealisation attaches a linguistic realisation. When one with the
// same label already exists, their corpus occurrences are merged instead
// of duplicating the realisation.
func (c *Concept) AddRealisation(lr *ConceptLR) {
	if existing, ok := c.realisations[lr.Label()]; ok {
		existing.AddOccurrences(lr.Occurrences()...)
		if lr.enrichment != nil {
			existing.EnsureEnrichment().Merge(lr.enrichment)
		}
		return
	}
	c.realisations[lr.Label()] = lr
}

// RemoveRealisation detaches the realisation with the given label,
// reporting whether one was present. The concept uid is unaffected.
func (c *Concept) RemoveRealisation(label string) bool {
	if _, ok := c.realisations[label]; !ok {
		return false
	}
	delete(c.realisations, label)
	return true
}

// Realisations returns the realisations sorted by label.
func (c *Concept) Realisations() []*ConceptLR {
	out := make([]*ConceptLR, 0, len(c.realisations))
	for _, lr := range c.realisations {
		out = append(out, lr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	return out
}

// Relation is a directed edge between two Concepts. Both endpoints must
// already live in the same KnowledgeRepresentation when the relation is
// added; the KR enforces this at the mutation boundary.
type Relation struct {
	container
	Source       *Concept
	Destination  *Concept
	realisations map[string]*RelationLR
}

// NewRelation creates a Relation with a fresh uid.
func NewRelation(label string, source, destination *Concept) *Relation {
	return &Relation{
		container:    newContainer(label),
		Source:       source,
		Destination:  destination,
		realisations: make(map[string]*RelationLR),
	}
}

// RestoreRelation rebuilds a persisted Relation with its original uid.
func RestoreRelation(uid, label string, source, destination *Concept) *Relation {
	return &Relation{
		container:    container{uid: uid, label: label},
		Source:       source,
		Destination:  destination,
		realisations: make(map[string]*RelationLR),
	}
}

// AddRealisation attaches a realisation, merging occurrences with any
// existing realisation of the same label.
func (r *Relation) AddRealisation(lr *RelationLR) {
	if existing, ok := r.realisations[lr.Label()]; ok {
		existing.AddOccurrences(lr.Occurrences()...)
		if lr.enrichment != nil {
			existing.EnsureEnrichment().Merge(lr.enrichment)
		}
		return
	}
	r.realisations[lr.Label()] = lr
}

// RemoveRealisation detaches the realisation with the given label.
func (r *Relation) RemoveRealisation(label string) bool {
	if _, ok := r.realisations[label]; !ok {
		return false
	}
	delete(r.realisations, label)
	return true
}

// Realisations returns the realisations sorted by label.
func (r *Relation) Realisations() []*RelationLR {
	out := make([]*RelationLR, 0, len(r.realisations))
	for _, lr := range r.realisations {
		out = append(out, lr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	return out
}

// MetaRelation is a relation about relations or concepts: its endpoints
// are Elements, so provenance or hierarchy links can point at either.
// Its label is conventionally the metarelation type (for example
// "is_generalised_by").
type MetaRelation struct {
	container
	Source       Element
	Destination  Element
	realisations map[string]*MetaRelationLR
}

// NewMetaRelation creates a MetaRelation with a fresh uid.
func NewMetaRelation(label string, source, destination Element) *MetaRelation {
	return &MetaRelation{
		container:    newContainer(label),
		Source:       source,
		Destination:  destination,
		realisations: make(map[string]*MetaRelationLR),
	}
}

// RestoreMetaRelation rebuilds a persisted MetaRelation with its
// original uid.
func RestoreMetaRelation(uid, label string, source, destination Element) *MetaRelation {
	return &MetaRelation{
		container:    container{uid: uid, label: label},
		Source:       source,
		Destination:  destination,
		realisations: make(map[string]*MetaRelationLR),
	}
}

// AddRealisation attaches a realisation, merging occurrences with any
// existing realisation of the same label.
func (m *MetaRelation) AddRealisation(lr *MetaRelationLR) {
	if existing, ok := m.realisations[lr.Label()]; ok {
		existing.AddOccurrences(lr.Occurrences()...)
		if lr.enrichment != nil {
			existing.EnsureEnrichment().Merge(lr.enrichment)
		}
		return
	}
	m.realisations[lr.Label()] = lr
}

// RemoveRealisation detaches the realisation with the given label.
func (m *MetaRelation) RemoveRealisation(label string) bool {
	if _, ok := m.realisations[label]; !ok {
		return false
	}
	delete(m.realisations, label)
	return true
}

// Realisations returns the realisations sorted by label.
func (m *MetaRelation) Realisations() []*MetaRelationLR {
	out := make([]*MetaRelationLR, 0, len(m.realisations))
	for _, lr := range m.realisations {
		out = append(out, lr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	return out
}

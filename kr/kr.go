package kr

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvariantViolation is returned when a mutation would break a graph
// consistency rule. The mutation is refused and the representation is
// left unchanged.
var ErrInvariantViolation = errors.New("kr: invariant violation")

// KnowledgeRepresentation is the aggregate graph built by the pipeline.
// It owns its concept, relation and metarelation sets; all mutation goes
// through the Add/Remove methods so the invariants below always hold:
//
//   - no two concepts (or relations, or metarelations) share a uid;
//   - a relation's endpoints are concepts already present in the graph;
//   - a metarelation's endpoints are concepts or relations already
//     present in the graph.
type KnowledgeRepresentation struct {
	concepts      map[string]*Concept
	relations     map[string]*Relation
	metarelations map[string]*MetaRelation
}

// New returns an empty knowledge representation.
func New() *KnowledgeRepresentation {
	return &KnowledgeRepresentation{
		concepts:      make(map[string]*Concept),
		relations:     make(map[string]*Relation),
		metarelations: make(map[string]*MetaRelation),
	}
}

// AddConcept inserts a concept. Re-adding a uid already present fails
// with ErrInvariantViolation.
func (k *KnowledgeRepresentation) AddConcept(c *Concept) error {
	if c == nil {
		return fmt.Errorf("%w: nil concept", ErrInvariantViolation)
	}
	if _, ok := k.concepts[c.UID()]; ok {
		return fmt.Errorf("%w: concept uid %s already present", ErrInvariantViolation, c.UID())
	}
	k.concepts[c.UID()] = c
	return nil
}

// RemoveConcept deletes a concept. A concept still referenced by a
// relation or metarelation cannot be removed, so the endpoint-presence
// invariant is preserved.
func (k *KnowledgeRepresentation) RemoveConcept(c *Concept) error {
	if c == nil {
		return fmt.Errorf("%w: nil concept", ErrInvariantViolation)
	}
	if _, ok := k.concepts[c.UID()]; !ok {
		return nil // not a member, nothing to do
	}
	for _, r := range k.relations {
		if r.Source.UID() == c.UID() || r.Destination.UID() == c.UID() {
			return fmt.Errorf("%w: concept %q is an endpoint of relation %q",
				ErrInvariantViolation, c.Label(), r.Label())
		}
	}
	for _, m := range k.metarelations {
		if m.Source.UID() == c.UID() || m.Destination.UID() == c.UID() {
			return fmt.Errorf("%w: concept %q is an endpoint of metarelation %q",
				ErrInvariantViolation, c.Label(), m.Label())
		}
	}
	delete(k.concepts, c.UID())
	return nil
}

// AddRelation inserts a relation. Both endpoints must already be
// concepts of this representation; otherwise the call fails with
// ErrInvariantViolation and the graph is unchanged.
func (k *KnowledgeRepresentation) AddRelation(r *Relation) error {
	if r == nil || r.Source == nil || r.Destination == nil {
		return fmt.Errorf("%w: relation endpoints must be non-nil", ErrInvariantViolation)
	}
	if _, ok := k.relations[r.UID()]; ok {
		return fmt.Errorf("%w: relation uid %s already present", ErrInvariantViolation, r.UID())
	}
	if _, ok := k.concepts[r.Source.UID()]; !ok {
		return fmt.Errorf("%w: source concept %q not in representation", ErrInvariantViolation, r.Source.Label())
	}
	if _, ok := k.concepts[r.Destination.UID()]; !ok {
		return fmt.Errorf("%w: destination concept %q not in representation", ErrInvariantViolation, r.Destination.Label())
	}
	k.relations[r.UID()] = r
	return nil
}

// RemoveRelation deletes a relation unless a metarelation references it.
func (k *KnowledgeRepresentation) RemoveRelation(r *Relation) error {
	if r == nil {
		return fmt.Errorf("%w: nil relation", ErrInvariantViolation)
	}
	if _, ok := k.relations[r.UID()]; !ok {
		return nil
	}
	for _, m := range k.metarelations {
		if m.Source.UID() == r.UID() || m.Destination.UID() == r.UID() {
			return fmt.Errorf("%w: relation %q is an endpoint of metarelation %q",
				ErrInvariantViolation, r.Label(), m.Label())
		}
	}
	delete(k.relations, r.UID())
	return nil
}

// AddMetaRelation inserts a metarelation. Each endpoint must already be
// a concept or a relation of this representation.
func (k *KnowledgeRepresentation) AddMetaRelation(m *MetaRelation) error {
	if m == nil || m.Source == nil || m.Destination == nil {
		return fmt.Errorf("%w: metarelation endpoints must be non-nil", ErrInvariantViolation)
	}
	if _, ok := k.metarelations[m.UID()]; ok {
		return fmt.Errorf("%w: metarelation uid %s already present", ErrInvariantViolation, m.UID())
	}
	if !k.hasElement(m.Source) {
		return fmt.Errorf("%w: source element %q not in representation", ErrInvariantViolation, m.Source.Label())
	}
	if !k.hasElement(m.Destination) {
		return fmt.Errorf("%w: destination element %q not in representation", ErrInvariantViolation, m.Destination.Label())
	}
	k.metarelations[m.UID()] = m
	return nil
}

// RemoveMetaRelation deletes a metarelation.
func (k *KnowledgeRepresentation) RemoveMetaRelation(m *MetaRelation) error {
	if m == nil {
		return fmt.Errorf("%w: nil metarelation", ErrInvariantViolation)
	}
	delete(k.metarelations, m.UID())
	return nil
}

func (k *KnowledgeRepresentation) hasElement(e Element) bool {
	if _, ok := k.concepts[e.UID()]; ok {
		return true
	}
	_, ok := k.relations[e.UID()]
	return ok
}

// HasConcept reports whether a concept with the given uid is present.
func (k *KnowledgeRepresentation) HasConcept(uid string) bool {
	_, ok := k.concepts[uid]
	return ok
}

// ConceptByLabel returns the first concept with the given label. A
// missing label is a normal empty result.
func (k *KnowledgeRepresentation) ConceptByLabel(label string) (*Concept, bool) {
	for _, c := range k.Concepts() {
		if c.Label() == label {
			return c, true
		}
	}
	return nil, false
}

// Concepts returns the concept set sorted by label then uid.
func (k *KnowledgeRepresentation) Concepts() []*Concept {
	out := make([]*Concept, 0, len(k.concepts))
	for _, c := range k.concepts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label() != out[j].Label() {
			return out[i].Label() < out[j].Label()
		}
		return out[i].UID() < out[j].UID()
	})
	return out
}

// Relations returns the relation set sorted by label then uid.
func (k *KnowledgeRepresentation) Relations() []*Relation {
	out := make([]*Relation, 0, len(k.relations))
	for _, r := range k.relations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label() != out[j].Label() {
			return out[i].Label() < out[j].Label()
		}
		return out[i].UID() < out[j].UID()
	})
	return out
}

// MetaRelations returns the metarelation set sorted by label then uid.
func (k *KnowledgeRepresentation) MetaRelations() []*MetaRelation {
	out := make([]*MetaRelation, 0, len(k.metarelations))
	for _, m := range k.metarelations {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label() != out[j].Label() {
			return out[i].Label() < out[j].Label()
		}
		return out[i].UID() < out[j].UID()
	})
	return out
}

// Len returns the total number of graph entities.
func (k *KnowledgeRepresentation) Len() int {
	return len(k.concepts) + len(k.relations) + len(k.metarelations)
}

//go:build cgo

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/extract"
	"github.com/mbarbier/ontolearn/kr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func buildGraph(t *testing.T) *kr.KnowledgeRepresentation {
	t.Helper()
	graph := kr.New()

	cell := kr.NewConcept("cell")
	cellLR := kr.NewConceptLR("cell",
		corpus.Span{DocID: "a.txt", Start: 9, End: 13},
		corpus.Span{DocID: "b.txt", Start: 2, End: 6},
	)
	cellLR.EnsureEnrichment().AddSynonyms("cellule")
	cell.AddRealisation(cellLR)

	stemCell := kr.NewConcept("stem cell")
	stemCell.SetExternalUID("wn:stem_cell")
	stemCell.AddRealisation(kr.NewConceptLR("stem cell",
		corpus.Span{DocID: "a.txt", Start: 4, End: 13}))

	energy := kr.NewConcept("energy")

	for _, c := range []*kr.Concept{cell, stemCell, energy} {
		if err := graph.AddConcept(c); err != nil {
			t.Fatalf("AddConcept: %v", err)
		}
	}

	rel := kr.NewRelation("produce", stemCell, energy)
	relLR := kr.NewRelationLR("produce", kr.RelationOccurrence{
		Source:      corpus.Span{DocID: "a.txt", Start: 4, End: 13},
		Trigger:     corpus.Span{DocID: "a.txt", Start: 14, End: 22},
		Destination: corpus.Span{DocID: "a.txt", Start: 23, End: 29},
	})
	rel.AddRealisation(relLR)
	if err := graph.AddRelation(rel); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}

	meta := kr.NewMetaRelation("is_generalised_by", stemCell, cell)
	meta.AddRealisation(kr.NewMetaRelationLR("is_generalised_by", kr.MetaRelationOccurrence{
		Source:      corpus.Span{DocID: "a.txt", Start: 4, End: 13},
		Destination: corpus.Span{DocID: "a.txt", Start: 9, End: 13},
	}))
	if err := graph.AddMetaRelation(meta); err != nil {
		t.Fatalf("AddMetaRelation: %v", err)
	}

	return graph
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	original := buildGraph(t)

	if err := s.SaveKR(ctx, original); err != nil {
		t.Fatalf("SaveKR: %v", err)
	}
	loaded, err := s.LoadKR(ctx)
	if err != nil {
		t.Fatalf("LoadKR: %v", err)
	}

	if loaded.Len() != original.Len() {
		t.Fatalf("graph size = %d, want %d", loaded.Len(), original.Len())
	}

	cell, ok := loaded.ConceptByLabel("cell")
	if !ok {
		t.Fatal("concept cell missing after load")
	}
	lrs := cell.Realisations()
	if len(lrs) != 1 {
		t.Fatalf("cell realisations = %d", len(lrs))
	}
	if got := len(lrs[0].Occurrences()); got != 2 {
		t.Errorf("cell occurrences = %d, want 2", got)
	}
	if syn := lrs[0].Enrichment().Synonyms(); len(syn) != 1 || syn[0] != "cellule" {
		t.Errorf("cell synonyms = %v", syn)
	}

	stemCell, ok := loaded.ConceptByLabel("stem cell")
	if !ok {
		t.Fatal("concept stem cell missing after load")
	}
	if stemCell.ExternalUID() != "wn:stem_cell" {
		t.Errorf("external uid = %q", stemCell.ExternalUID())
	}

	rels := loaded.Relations()
	if len(rels) != 1 {
		t.Fatalf("relations = %d", len(rels))
	}
	r := rels[0]
	if r.Label() != "produce" || r.Source.Label() != "stem cell" || r.Destination.Label() != "energy" {
		t.Errorf("relation = %s (%s -> %s)", r.Label(), r.Source.Label(), r.Destination.Label())
	}
	occs := r.Realisations()[0].Occurrences()
	if len(occs) != 1 {
		t.Fatalf("relation occurrences = %d", len(occs))
	}
	if occs[0].Trigger.Start != 14 || occs[0].Trigger.End != 22 {
		t.Errorf("trigger span = %+v", occs[0].Trigger)
	}

	metas := loaded.MetaRelations()
	if len(metas) != 1 {
		t.Fatalf("metarelations = %d", len(metas))
	}
	m := metas[0]
	if m.Source.Label() != "stem cell" || m.Destination.Label() != "cell" {
		t.Errorf("metarelation endpoints = %s -> %s", m.Source.Label(), m.Destination.Label())
	}
}

func TestLoadKeepsAbsentEnrichmentNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// The stem cell realisation carries no enrichment when saved; it
	// must not come back with an empty one.
	if err := s.SaveKR(ctx, buildGraph(t)); err != nil {
		t.Fatalf("SaveKR: %v", err)
	}
	loaded, err := s.LoadKR(ctx)
	if err != nil {
		t.Fatalf("LoadKR: %v", err)
	}

	stemCell, ok := loaded.ConceptByLabel("stem cell")
	if !ok {
		t.Fatal("concept stem cell missing after load")
	}
	if enr := stemCell.Realisations()[0].Enrichment(); enr != nil {
		t.Errorf("enrichment = %+v, want nil", enr)
	}

	rels := loaded.Relations()
	if len(rels) != 1 {
		t.Fatalf("relations = %d", len(rels))
	}
	if enr := rels[0].Realisations()[0].Enrichment(); enr != nil {
		t.Errorf("relation enrichment = %+v, want nil", enr)
	}
}

func TestUIDsSurviveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	original := buildGraph(t)

	if err := s.SaveKR(ctx, original); err != nil {
		t.Fatalf("SaveKR: %v", err)
	}
	loaded, err := s.LoadKR(ctx)
	if err != nil {
		t.Fatalf("LoadKR: %v", err)
	}

	want, _ := original.ConceptByLabel("cell")
	got, _ := loaded.ConceptByLabel("cell")
	if got.UID() != want.UID() {
		t.Errorf("uid changed across persistence: %s vs %s", got.UID(), want.UID())
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveKR(ctx, buildGraph(t)); err != nil {
		t.Fatalf("first SaveKR: %v", err)
	}

	small := kr.New()
	if err := small.AddConcept(kr.NewConcept("only")); err != nil {
		t.Fatalf("AddConcept: %v", err)
	}
	if err := s.SaveKR(ctx, small); err != nil {
		t.Fatalf("second SaveKR: %v", err)
	}

	loaded, err := s.LoadKR(ctx)
	if err != nil {
		t.Fatalf("LoadKR: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("graph size = %d, want the second snapshot only", loaded.Len())
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := newTestStore(t)
	loaded, err := s.LoadKR(context.Background())
	if err != nil {
		t.Fatalf("LoadKR: %v", err)
	}
	if loaded.Len() != 0 {
		t.Errorf("empty store loaded %d entities", loaded.Len())
	}
}

func TestAxiomRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	axioms := []extract.Axiom{
		{Kind: extract.AxiomSubClassOf, Subject: "stem cell", Object: "cell"},
		{Kind: extract.AxiomPropertyDomain, Subject: "produce", Predicate: "produce", Object: "stem cell"},
	}
	if err := s.SaveAxioms(ctx, axioms); err != nil {
		t.Fatalf("SaveAxioms: %v", err)
	}

	loaded, err := s.LoadAxioms(ctx)
	if err != nil {
		t.Fatalf("LoadAxioms: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("axioms = %d, want 2", len(loaded))
	}
	// Ordered by kind: ObjectPropertyDomain before SubClassOf.
	if loaded[0].Kind != extract.AxiomPropertyDomain || loaded[1].Kind != extract.AxiomSubClassOf {
		t.Errorf("order = %s, %s", loaded[0].Kind, loaded[1].Kind)
	}
}

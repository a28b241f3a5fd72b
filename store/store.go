// Package store persists knowledge representations to SQLite. A save is
// a full snapshot: the graph, its realisations and evidence, its
// enrichment, and any derived axioms.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/extract"
	"github.com/mbarbier/ontolearn/kr"
)

// Owner kinds used in the realisations and metarelations tables.
const (
	kindConcept      = "concept"
	kindRelation     = "relation"
	kindMetaRelation = "metarelation"
)

// Occurrence slots.
const (
	slotSpan        = "span"
	slotSource      = "source"
	slotTrigger     = "trigger"
	slotDestination = "destination"
)

// Store wraps the SQLite database holding persisted graphs.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveKR replaces the persisted graph with a snapshot of k.
func (s *Store) SaveKR(ctx context.Context, k *kr.KnowledgeRepresentation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"occurrences", "enrichment_terms", "realisations", "metarelations", "relations", "concepts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, c := range k.Concepts() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO concepts (uid, external_uid, label) VALUES (?, ?, ?)",
			c.UID(), c.ExternalUID(), c.Label()); err != nil {
			return fmt.Errorf("saving concept %q: %w", c.Label(), err)
		}
		for _, lr := range c.Realisations() {
			rid, err := insertRealisation(ctx, tx, kindConcept, c.UID(), lr.Label())
			if err != nil {
				return err
			}
			for grp, span := range lr.Occurrences() {
				if err := insertSpan(ctx, tx, rid, grp, slotSpan, span); err != nil {
					return err
				}
			}
			if err := insertEnrichment(ctx, tx, rid, lr.Enrichment()); err != nil {
				return err
			}
		}
	}

	for _, r := range k.Relations() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO relations (uid, external_uid, label, source_uid, destination_uid)
			VALUES (?, ?, ?, ?, ?)
		`, r.UID(), r.ExternalUID(), r.Label(), r.Source.UID(), r.Destination.UID()); err != nil {
			return fmt.Errorf("saving relation %q: %w", r.Label(), err)
		}
		for _, lr := range r.Realisations() {
			rid, err := insertRealisation(ctx, tx, kindRelation, r.UID(), lr.Label())
			if err != nil {
				return err
			}
			for grp, occ := range lr.Occurrences() {
				if err := insertSpan(ctx, tx, rid, grp, slotSource, occ.Source); err != nil {
					return err
				}
				if err := insertSpan(ctx, tx, rid, grp, slotTrigger, occ.Trigger); err != nil {
					return err
				}
				if err := insertSpan(ctx, tx, rid, grp, slotDestination, occ.Destination); err != nil {
					return err
				}
			}
			if err := insertEnrichment(ctx, tx, rid, lr.Enrichment()); err != nil {
				return err
			}
		}
	}

	for _, m := range k.MetaRelations() {
		srcKind, dstKind := elementKind(m.Source), elementKind(m.Destination)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO metarelations (uid, external_uid, label, source_kind, source_uid, destination_kind, destination_uid)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, m.UID(), m.ExternalUID(), m.Label(), srcKind, m.Source.UID(), dstKind, m.Destination.UID()); err != nil {
			return fmt.Errorf("saving metarelation %q: %w", m.Label(), err)
		}
		for _, lr := range m.Realisations() {
			rid, err := insertRealisation(ctx, tx, kindMetaRelation, m.UID(), lr.Label())
			if err != nil {
				return err
			}
			for grp, occ := range lr.Occurrences() {
				if err := insertSpan(ctx, tx, rid, grp, slotSource, occ.Source); err != nil {
					return err
				}
				if err := insertSpan(ctx, tx, rid, grp, slotDestination, occ.Destination); err != nil {
					return err
				}
			}
			if err := insertEnrichment(ctx, tx, rid, lr.Enrichment()); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func elementKind(e kr.Element) string {
	if _, ok := e.(*kr.Concept); ok {
		return kindConcept
	}
	return kindRelation
}

func insertRealisation(ctx context.Context, tx *sql.Tx, ownerKind, ownerUID, label string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO realisations (owner_kind, owner_uid, label) VALUES (?, ?, ?)",
		ownerKind, ownerUID, label)
	if err != nil {
		return 0, fmt.Errorf("saving realisation %q: %w", label, err)
	}
	return res.LastInsertId()
}

func insertSpan(ctx context.Context, tx *sql.Tx, rid int64, grp int, slot string, span corpus.Span) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO occurrences (realisation_id, grp, slot, doc_id, span_start, span_end)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rid, grp, slot, span.DocID, span.Start, span.End)
	return err
}

func insertEnrichment(ctx context.Context, tx *sql.Tx, rid int64, e *kr.Enrichment) error {
	if e == nil {
		return nil
	}
	kinds := map[string][]string{
		"synonym":  e.Synonyms(),
		"hypernym": e.Hypernyms(),
		"hyponym":  e.Hyponyms(),
		"antonym":  e.Antonyms(),
	}
	for kind, terms := range kinds {
		for _, term := range terms {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO enrichment_terms (realisation_id, kind, term) VALUES (?, ?, ?)",
				rid, kind, term); err != nil {
				return fmt.Errorf("saving enrichment term %q: %w", term, err)
			}
		}
	}
	return nil
}

// LoadKR reconstructs the persisted graph.
func (s *Store) LoadKR(ctx context.Context) (*kr.KnowledgeRepresentation, error) {
	graph := kr.New()

	concepts := make(map[string]*kr.Concept)
	rows, err := s.db.QueryContext(ctx, "SELECT uid, external_uid, label FROM concepts")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var uid, label string
		var external sql.NullString
		if err := rows.Scan(&uid, &external, &label); err != nil {
			rows.Close()
			return nil, err
		}
		c := kr.RestoreConcept(uid, label)
		if external.String != "" {
			c.SetExternalUID(external.String)
		}
		concepts[uid] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range concepts {
		if err := graph.AddConcept(c); err != nil {
			return nil, err
		}
	}

	relations := make(map[string]*kr.Relation)
	rows, err = s.db.QueryContext(ctx,
		"SELECT uid, external_uid, label, source_uid, destination_uid FROM relations")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var uid, label, srcUID, dstUID string
		var external sql.NullString
		if err := rows.Scan(&uid, &external, &label, &srcUID, &dstUID); err != nil {
			rows.Close()
			return nil, err
		}
		src, dst := concepts[srcUID], concepts[dstUID]
		if src == nil || dst == nil {
			rows.Close()
			return nil, fmt.Errorf("relation %s references missing concept", uid)
		}
		r := kr.RestoreRelation(uid, label, src, dst)
		if external.String != "" {
			r.SetExternalUID(external.String)
		}
		relations[uid] = r
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, r := range relations {
		if err := graph.AddRelation(r); err != nil {
			return nil, err
		}
	}

	metarelations := make(map[string]*kr.MetaRelation)
	rows, err = s.db.QueryContext(ctx, `
		SELECT uid, external_uid, label, source_kind, source_uid, destination_kind, destination_uid
		FROM metarelations
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var uid, label, srcKind, srcUID, dstKind, dstUID string
		var external sql.NullString
		if err := rows.Scan(&uid, &external, &label, &srcKind, &srcUID, &dstKind, &dstUID); err != nil {
			rows.Close()
			return nil, err
		}
		src := lookupElement(concepts, relations, srcKind, srcUID)
		dst := lookupElement(concepts, relations, dstKind, dstUID)
		if src == nil || dst == nil {
			rows.Close()
			return nil, fmt.Errorf("metarelation %s references missing element", uid)
		}
		m := kr.RestoreMetaRelation(uid, label, src, dst)
		if external.String != "" {
			m.SetExternalUID(external.String)
		}
		metarelations[uid] = m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range metarelations {
		if err := graph.AddMetaRelation(m); err != nil {
			return nil, err
		}
	}

	if err := s.loadRealisations(ctx, concepts, relations, metarelations); err != nil {
		return nil, err
	}
	return graph, nil
}

func lookupElement(concepts map[string]*kr.Concept, relations map[string]*kr.Relation, kind, uid string) kr.Element {
	switch kind {
	case kindConcept:
		if c, ok := concepts[uid]; ok {
			return c
		}
	case kindRelation:
		if r, ok := relations[uid]; ok {
			return r
		}
	}
	return nil
}

func (s *Store) loadRealisations(ctx context.Context, concepts map[string]*kr.Concept, relations map[string]*kr.Relation, metarelations map[string]*kr.MetaRelation) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_kind, owner_uid, label FROM realisations")
	if err != nil {
		return err
	}
	type realisationRow struct {
		id        int64
		ownerKind string
		ownerUID  string
		label     string
	}
	var rrs []realisationRow
	for rows.Next() {
		var rr realisationRow
		if err := rows.Scan(&rr.id, &rr.ownerKind, &rr.ownerUID, &rr.label); err != nil {
			rows.Close()
			return err
		}
		rrs = append(rrs, rr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, rr := range rrs {
		spans, err := s.loadOccurrences(ctx, rr.id)
		if err != nil {
			return err
		}

		var ensure func() *kr.Enrichment

		switch rr.ownerKind {
		case kindConcept:
			owner, ok := concepts[rr.ownerUID]
			if !ok {
				return fmt.Errorf("realisation %d references missing concept", rr.id)
			}
			lr := kr.NewConceptLR(rr.label)
			for _, g := range spans {
				lr.AddOccurrences(g[slotSpan])
			}
			owner.AddRealisation(lr)
			ensure = lr.EnsureEnrichment
		case kindRelation:
			owner, ok := relations[rr.ownerUID]
			if !ok {
				return fmt.Errorf("realisation %d references missing relation", rr.id)
			}
			lr := kr.NewRelationLR(rr.label)
			for _, g := range spans {
				lr.AddOccurrences(kr.RelationOccurrence{
					Source:      g[slotSource],
					Trigger:     g[slotTrigger],
					Destination: g[slotDestination],
				})
			}
			owner.AddRealisation(lr)
			ensure = lr.EnsureEnrichment
		case kindMetaRelation:
			owner, ok := metarelations[rr.ownerUID]
			if !ok {
				return fmt.Errorf("realisation %d references missing metarelation", rr.id)
			}
			lr := kr.NewMetaRelationLR(rr.label)
			for _, g := range spans {
				lr.AddOccurrences(kr.MetaRelationOccurrence{
					Source:      g[slotSource],
					Destination: g[slotDestination],
				})
			}
			owner.AddRealisation(lr)
			ensure = lr.EnsureEnrichment
		default:
			return fmt.Errorf("realisation %d has unknown owner kind %q", rr.id, rr.ownerKind)
		}

		if err := s.loadEnrichment(ctx, rr.id, ensure); err != nil {
			return err
		}
	}
	return nil
}

// loadOccurrences returns the occurrence groups of a realisation as
// slot-to-span maps, ordered by group.
func (s *Store) loadOccurrences(ctx context.Context, rid int64) ([]map[string]corpus.Span, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT grp, slot, doc_id, span_start, span_end
		FROM occurrences WHERE realisation_id = ? ORDER BY grp
	`, rid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make(map[int]map[string]corpus.Span)
	var order []int
	for rows.Next() {
		var grp int
		var slot, docID string
		var start, end int
		if err := rows.Scan(&grp, &slot, &docID, &start, &end); err != nil {
			return nil, err
		}
		if _, ok := groups[grp]; !ok {
			groups[grp] = make(map[string]corpus.Span)
			order = append(order, grp)
		}
		groups[grp][slot] = corpus.Span{DocID: docID, Start: start, End: end}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]map[string]corpus.Span, 0, len(order))
	for _, grp := range order {
		out = append(out, groups[grp])
	}
	return out, nil
}

// loadEnrichment attaches persisted enrichment terms to a realisation.
// ensure runs only when at least one row exists, so realisations saved
// without enrichment load back with a nil one.
func (s *Store) loadEnrichment(ctx context.Context, rid int64, ensure func() *kr.Enrichment) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, term FROM enrichment_terms WHERE realisation_id = ?", rid)
	if err != nil {
		return err
	}
	defer rows.Close()

	var e *kr.Enrichment
	for rows.Next() {
		var kind, term string
		if err := rows.Scan(&kind, &term); err != nil {
			return err
		}
		if e == nil {
			e = ensure()
		}
		switch kind {
		case "synonym":
			e.AddSynonyms(term)
		case "hypernym":
			e.AddHypernyms(term)
		case "hyponym":
			e.AddHyponyms(term)
		case "antonym":
			e.AddAntonyms(term)
		}
	}
	return rows.Err()
}

// SaveAxioms replaces the persisted axiom set.
func (s *Store) SaveAxioms(ctx context.Context, axioms []extract.Axiom) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM axioms"); err != nil {
		return err
	}
	for _, a := range axioms {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO axioms (kind, subject, predicate, object)
			VALUES (?, ?, ?, ?)
		`, a.Kind, a.Subject, a.Predicate, a.Object); err != nil {
			return fmt.Errorf("saving axiom: %w", err)
		}
	}
	return tx.Commit()
}

// LoadAxioms returns the persisted axioms ordered by kind, subject,
// object.
func (s *Store) LoadAxioms(ctx context.Context) ([]extract.Axiom, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, subject, predicate, object FROM axioms ORDER BY kind, subject, object")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []extract.Axiom
	for rows.Next() {
		var a extract.Axiom
		if err := rows.Scan(&a.Kind, &a.Subject, &a.Predicate, &a.Object); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

package ks

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/kr"
)

func init() {
	sqlite_vec.Auto()
}

// Embedder turns texts into vectors. llm.Provider satisfies it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorSource is a knowledge source backed by a sqlite-vec index of
// external concept embeddings. Matching embeds the queried label and
// returns the nearest indexed entries within MaxDistance.
type VectorSource struct {
	name     string
	db       *sql.DB
	embedder Embedder
	dim      int

	// K is the number of neighbours fetched per query. Zero means 5.
	K int
	// MaxDistance discards neighbours farther than this. Zero means no
	// cutoff.
	MaxDistance float64
}

const vectorSchema = `
CREATE TABLE IF NOT EXISTS entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT NOT NULL UNIQUE,
	label       TEXT NOT NULL,
	synonyms    TEXT NOT NULL DEFAULT '[]',
	hypernyms   TEXT NOT NULL DEFAULT '[]',
	hyponyms    TEXT NOT NULL DEFAULT '[]',
	antonyms    TEXT NOT NULL DEFAULT '[]'
);

CREATE VIRTUAL TABLE IF NOT EXISTS vec_entries USING vec0(
	entry_id INTEGER PRIMARY KEY,
	embedding FLOAT[%d]
);
`

// NewVectorSource opens (or creates) a sqlite-vec index at the given
// path. dim must match the embedder's output dimension.
func NewVectorSource(name, path string, dim int, embedder Embedder) (*VectorSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening vector source: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf(vectorSchema, dim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising vector source schema: %w", err)
	}
	return &VectorSource{name: name, db: db, embedder: embedder, dim: dim}, nil
}

// Close releases the underlying database.
func (v *VectorSource) Close() error { return v.db.Close() }

// Add indexes an external concept: the entry row plus an embedding of
// its label.
func (v *VectorSource) Add(ctx context.Context, e Entry) error {
	embs, err := v.embedder.Embed(ctx, []string{e.Label})
	if err != nil {
		return fmt.Errorf("embedding %q: %w", e.Label, err)
	}
	if len(embs) != 1 || len(embs[0]) != v.dim {
		return fmt.Errorf("embedding %q: got dimension %d, want %d", e.Label, len(embs[0]), v.dim)
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (external_id, label, synonyms, hypernyms, hyponyms, antonyms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			label = excluded.label,
			synonyms = excluded.synonyms,
			hypernyms = excluded.hypernyms,
			hyponyms = excluded.hyponyms,
			antonyms = excluded.antonyms
	`, e.ExternalID, e.Label, jsonList(e.Synonyms), jsonList(e.Hypernyms),
		jsonList(e.Hyponyms), jsonList(e.Antonyms))
	if err != nil {
		return err
	}

	// LastInsertId is stale on the conflict-update branch; read the real id.
	var entryID int64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM entries WHERE external_id = ?", e.ExternalID).Scan(&entryID); err != nil {
		return err
	}

	// vec0 virtual tables reject INSERT OR REPLACE on an existing key.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM vec_entries WHERE entry_id = ?", entryID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO vec_entries (entry_id, embedding) VALUES (?, ?)",
		entryID, serializeFloat32(embs[0])); err != nil {
		return err
	}
	return tx.Commit()
}

// Name implements KnowledgeSource.
func (v *VectorSource) Name() string { return v.name }

// CheckResources implements KnowledgeSource.
func (v *VectorSource) CheckResources(ctx context.Context) error {
	if err := v.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: vector source %s: %v", ontolearn.ErrMissingResource, v.name, err)
	}
	var n int
	if err := v.db.QueryRowContext(ctx, "SELECT count(*) FROM entries").Scan(&n); err != nil {
		return fmt.Errorf("%w: vector source %s: %v", ontolearn.ErrMissingResource, v.name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: vector source %s is empty", ontolearn.ErrMissingResource, v.name)
	}
	return nil
}

// Match implements KnowledgeSource via KNN search over indexed labels.
// Score is 1/(1+distance) so higher stays better.
func (v *VectorSource) Match(ctx context.Context, label string) ([]Match, error) {
	embs, err := v.embedder.Embed(ctx, []string{label})
	if err != nil {
		return nil, fmt.Errorf("embedding %q: %w", label, err)
	}
	k := v.K
	if k <= 0 {
		k = 5
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT e.external_id, e.label, ve.distance
		FROM vec_entries ve
		JOIN entries e ON e.id = ve.entry_id
		WHERE ve.embedding MATCH ? AND k = ?
		ORDER BY ve.distance
	`, serializeFloat32(embs[0]), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var distance float64
		if err := rows.Scan(&m.ExternalID, &m.Label, &distance); err != nil {
			return nil, err
		}
		if v.MaxDistance > 0 && distance > v.MaxDistance {
			continue
		}
		m.Score = 1 / (1 + distance)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Enrich implements KnowledgeSource: related terms of the best match
// are merged into enr.
func (v *VectorSource) Enrich(ctx context.Context, label string, enr *kr.Enrichment) error {
	matches, err := v.Match(ctx, label)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	var synonyms, hypernyms, hyponyms, antonyms string
	err = v.db.QueryRowContext(ctx, `
		SELECT synonyms, hypernyms, hyponyms, antonyms
		FROM entries WHERE external_id = ?
	`, matches[0].ExternalID).Scan(&synonyms, &hypernyms, &hyponyms, &antonyms)
	if err != nil {
		return err
	}

	enr.AddSynonyms(fromJSONList(synonyms)...)
	enr.AddHypernyms(fromJSONList(hypernyms)...)
	enr.AddHyponyms(fromJSONList(hyponyms)...)
	enr.AddAntonyms(fromJSONList(antonyms)...)
	return nil
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func fromJSONList(data string) []string {
	var items []string
	_ = json.Unmarshal([]byte(data), &items)
	return items
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

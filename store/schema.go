package store

// schemaSQL is the DDL for all tables.
const schemaSQL = `
-- Graph entities. uid is the framework-assigned identity; external_uid
-- is the optional identifier in an external knowledge source.
CREATE TABLE IF NOT EXISTS concepts (
    uid TEXT PRIMARY KEY,
    external_uid TEXT,
    label TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS relations (
    uid TEXT PRIMARY KEY,
    external_uid TEXT,
    label TEXT NOT NULL,
    source_uid TEXT NOT NULL REFERENCES concepts(uid) ON DELETE CASCADE,
    destination_uid TEXT NOT NULL REFERENCES concepts(uid) ON DELETE CASCADE
);

-- Metarelation endpoints may be concepts or relations, so they carry a
-- kind discriminator instead of a foreign key.
CREATE TABLE IF NOT EXISTS metarelations (
    uid TEXT PRIMARY KEY,
    external_uid TEXT,
    label TEXT NOT NULL,
    source_kind TEXT NOT NULL,
    source_uid TEXT NOT NULL,
    destination_kind TEXT NOT NULL,
    destination_uid TEXT NOT NULL
);

-- Linguistic realisations, one row per (owner, surface label).
CREATE TABLE IF NOT EXISTS realisations (
    id INTEGER PRIMARY KEY,
    owner_kind TEXT NOT NULL,
    owner_uid TEXT NOT NULL,
    label TEXT NOT NULL,
    UNIQUE(owner_kind, owner_uid, label)
);

-- Corpus evidence. Concept evidence is a single 'span' row; relation
-- evidence is a (source, trigger, destination) row group; metarelation
-- evidence a (source, destination) group. grp ties a group's rows
-- together within one realisation.
CREATE TABLE IF NOT EXISTS occurrences (
    id INTEGER PRIMARY KEY,
    realisation_id INTEGER NOT NULL REFERENCES realisations(id) ON DELETE CASCADE,
    grp INTEGER NOT NULL,
    slot TEXT NOT NULL,
    doc_id TEXT NOT NULL,
    span_start INTEGER NOT NULL,
    span_end INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS enrichment_terms (
    realisation_id INTEGER NOT NULL REFERENCES realisations(id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    term TEXT NOT NULL,
    PRIMARY KEY (realisation_id, kind, term)
);

CREATE TABLE IF NOT EXISTS axioms (
    id INTEGER PRIMARY KEY,
    kind TEXT NOT NULL,
    subject TEXT NOT NULL,
    predicate TEXT NOT NULL DEFAULT '',
    object TEXT NOT NULL,
    UNIQUE(kind, subject, predicate, object)
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_concepts_label ON concepts(label);
CREATE INDEX IF NOT EXISTS idx_relations_source ON relations(source_uid);
CREATE INDEX IF NOT EXISTS idx_relations_destination ON relations(destination_uid);
CREATE INDEX IF NOT EXISTS idx_realisations_owner ON realisations(owner_kind, owner_uid);
CREATE INDEX IF NOT EXISTS idx_occurrences_realisation ON occurrences(realisation_id);
`

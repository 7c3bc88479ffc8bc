package sqlite

import "github.com/mesh-intelligence/ranks/pkg/types"

// Table DDL. The sqlite file is the system of record; tables are created on
// first attach and kept afterwards.
const (
	createSections = `CREATE TABLE IF NOT EXISTS sections (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    visible BOOLEAN NOT NULL DEFAULT 1
);`

	createItems = `CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    section_id TEXT REFERENCES sections(id) ON DELETE SET NULL,
    position INTEGER NOT NULL,
    visible BOOLEAN NOT NULL DEFAULT 1
);`
)

// Unique (scope, position) indexes, created when the unique index mode is
// eager. SQLite checks them on every row write.
const (
	idxSectionsPosition     = `CREATE UNIQUE INDEX IF NOT EXISTS idx_sections_position ON sections(position);`
	idxItemsSectionPosition = `CREATE UNIQUE INDEX IF NOT EXISTS idx_items_section_position ON items(section_id, position);`
)

// Plain indexes for range reads when no unique index is requested.
const (
	idxSectionsPositionPlain     = `CREATE INDEX IF NOT EXISTS idx_sections_position_scan ON sections(position);`
	idxItemsSectionPositionPlain = `CREATE INDEX IF NOT EXISTS idx_items_section_position_scan ON items(section_id, position);`
)

// schemaDDL lists the CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSections,
	createItems,
}

// indexDDL returns the index statements for a unique index mode.
func indexDDL(uniqueIndex string) []string {
	if uniqueIndex == types.UniqueIndexNone {
		return []string{idxSectionsPositionPlain, idxItemsSectionPositionPlain}
	}
	return []string{idxSectionsPosition, idxItemsSectionPosition}
}

package postgres

import (
	"fmt"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

const (
	createSections = `CREATE TABLE IF NOT EXISTS sections (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    visible BOOLEAN NOT NULL DEFAULT TRUE%s
);`

	createItems = `CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    section_id TEXT REFERENCES sections(id) ON DELETE SET NULL,
    position INTEGER NOT NULL,
    visible BOOLEAN NOT NULL DEFAULT TRUE%s
);`

	idxSectionsPosition     = `CREATE INDEX IF NOT EXISTS idx_sections_position ON sections(position);`
	idxItemsSectionPosition = `CREATE INDEX IF NOT EXISTS idx_items_section_position ON items(section_id, position);`
)

// uniqueClause returns the table constraint for a unique index mode.
func uniqueClause(name, columns, mode string) string {
	switch mode {
	case types.UniqueIndexNone:
		return ""
	case types.UniqueIndexDeferred:
		return fmt.Sprintf(",\n    CONSTRAINT %s UNIQUE (%s) DEFERRABLE INITIALLY DEFERRED", name, columns)
	default:
		return fmt.Sprintf(",\n    CONSTRAINT %s UNIQUE (%s)", name, columns)
	}
}

// schemaDDL lists the statements creating the list tables in dependency
// order. Tables that already exist keep their constraints.
func schemaDDL(mode string) []string {
	ddl := []string{
		fmt.Sprintf(createSections, uniqueClause("uq_sections_position", "position", mode)),
		fmt.Sprintf(createItems, uniqueClause("uq_items_section_position", "section_id, position", mode)),
	}
	if mode == types.UniqueIndexNone {
		ddl = append(ddl, idxSectionsPosition, idxItemsSectionPosition)
	}
	return ddl
}

package types

// Standard list names for Backend.GetTable.
const (
	SectionsTable = "sections"
	ItemsTable    = "items"
)

// ListSpec describes an orderable table. ScopeColumn is empty for unscoped
// lists. Parent names the table the scope column references; filtered
// sibling reads join it to apply the parent's visibility.
type ListSpec struct {
	Table       string
	ScopeColumn string
	Parent      *ListSpec
}

// Scoped reports whether positions are partitioned by a parent column.
func (l ListSpec) Scoped() bool {
	return l.ScopeColumn != ""
}

// Sections is the unscoped list of sections.
var Sections = ListSpec{Table: SectionsTable}

// Items is the list of items, ordered within their section.
var Items = ListSpec{Table: ItemsTable, ScopeColumn: "section_id", Parent: &Sections}

// StandardLists lists every list a backend exposes, parents first.
var StandardLists = []ListSpec{Sections, Items}

// LookupList returns the standard list with the given table name.
func LookupList(name string) (ListSpec, error) {
	for _, l := range StandardLists {
		if l.Table == name {
			return l, nil
		}
	}
	return ListSpec{}, ErrTableNotFound
}

package position

import "github.com/mesh-intelligence/ranks/pkg/types"

// ScopeResolver returns the partition a record's position is unique within.
// Implementations are pure functions of the record.
type ScopeResolver interface {
	ScopeOf(rec types.Record) types.ScopeKey
}

type unscoped struct{}

func (unscoped) ScopeOf(types.Record) types.ScopeKey { return types.NullScope }

type byParent struct{}

func (byParent) ScopeOf(rec types.Record) types.ScopeKey { return types.ScopeOf(rec.ParentID) }

// Unscoped puts every record of a list in one scope.
func Unscoped() ScopeResolver { return unscoped{} }

// ByParent scopes records by their parent column. Records without a parent
// share the null scope.
func ByParent() ScopeResolver { return byParent{} }

// ResolverFor picks the resolver matching a list's scope column.
func ResolverFor(list types.ListSpec) ScopeResolver {
	if list.Scoped() {
		return ByParent()
	}
	return Unscoped()
}

// SameScope reports whether a and b resolve to the same scope.
func SameScope(r ScopeResolver, a, b types.Record) bool {
	return r.ScopeOf(a) == r.ScopeOf(b)
}

package position

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestScopeResolvers(t *testing.T) {
	a := types.Record{ID: "1", ParentID: strPtr("s1")}
	b := types.Record{ID: "2", ParentID: strPtr("s1")}
	c := types.Record{ID: "3", ParentID: strPtr("s2")}
	orphan1 := types.Record{ID: "4"}
	orphan2 := types.Record{ID: "5"}

	tests := []struct {
		name     string
		resolver ScopeResolver
		x, y     types.Record
		same     bool
	}{
		{name: "same parent", resolver: ByParent(), x: a, y: b, same: true},
		{name: "different parent", resolver: ByParent(), x: a, y: c, same: false},
		{name: "both null parents share a scope", resolver: ByParent(), x: orphan1, y: orphan2, same: true},
		{name: "null and set parent differ", resolver: ByParent(), x: orphan1, y: a, same: false},
		{name: "unscoped ignores parent", resolver: Unscoped(), x: a, y: c, same: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, SameScope(tt.resolver, tt.x, tt.y))
		})
	}
}

func TestResolverFor(t *testing.T) {
	rec := types.Record{ParentID: strPtr("s1")}
	assert.Equal(t, types.NullScope, ResolverFor(types.Sections).ScopeOf(rec))
	assert.Equal(t, types.ScopeKey{Value: "s1", Valid: true}, ResolverFor(types.Items).ScopeOf(rec))
}

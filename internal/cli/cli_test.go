package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// harness runs commands against one config and data directory.
type harness struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("RANKS_CONFIG_DIR", "")
	t.Setenv("RANKS_DATA_DIR", "")
	t.Setenv("RANKS_STRICT", "")
	dir := t.TempDir()
	return &harness{t: t, configDir: filepath.Join(dir, "config"), dataDir: filepath.Join(dir, "data")}
}

func (h *harness) run(args ...string) (string, string, int) {
	h.t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	full := append([]string{"--config-dir", h.configDir, "--data-dir", h.dataDir}, args...)
	code := run(context.Background(), root, full)
	return stdout.String(), stderr.String(), code
}

func (h *harness) ok(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.run(args...)
	require.Equal(h.t, exitSuccess, code, "ranks %s: %s", strings.Join(args, " "), errOut)
	return out
}

func (h *harness) add(args ...string) types.Record {
	h.t.Helper()
	var rec types.Record
	require.NoError(h.t, json.Unmarshal([]byte(h.ok(append([]string{"--json", "add"}, args...)...)), &rec))
	return rec
}

func (h *harness) list(args ...string) []types.Record {
	h.t.Helper()
	var recs []types.Record
	require.NoError(h.t, json.Unmarshal([]byte(h.ok(append([]string{"--json", "list"}, args...)...)), &recs))
	return recs
}

func names(recs []types.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out := h.ok("version")
	assert.Contains(t, out, "ranks v")
	assert.Contains(t, out, modulePath)
}

func TestInitWritesConfig(t *testing.T) {
	h := newHarness(t)
	out := h.ok("init")
	assert.Contains(t, out, "ranks initialized")

	data, err := os.ReadFile(filepath.Join(h.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	_, err = os.Stat(filepath.Join(h.dataDir, "ranks.db"))
	assert.NoError(t, err)

	// A second init keeps the existing file.
	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, configFileExt), []byte("backend: sqlite\nlog_level: debug\n"), 0o644))
	h.ok("init")
	data, err = os.ReadFile(filepath.Join(h.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: debug")
}

func TestListWorkflow(t *testing.T) {
	h := newHarness(t)
	sec := h.add("sections", "--name", "inbox")
	for _, name := range []string{"a", "b", "c"} {
		h.add("items", "--parent", sec.ID, "--name", name)
	}
	top := h.add("items", "--parent", sec.ID, "--name", "top", "--at", "1")
	assert.Equal(t, 1, top.Position)
	assert.Equal(t, []string{"top", "a", "b", "c"}, names(h.list("items", "--parent", sec.ID)))

	items := h.list("items", "--parent", sec.ID)
	h.ok("move", "items", items[3].ID, "--top")
	h.ok("move", "items", items[0].ID, "--to", "4")
	h.ok("move", "items", items[1].ID, "--below", items[2].ID)
	assert.Equal(t, []string{"c", "b", "a", "top"}, names(h.list("items", "--parent", sec.ID)))

	h.ok("remove", "items", items[2].ID)
	got := h.list("items", "--parent", sec.ID)
	assert.Equal(t, []string{"c", "a", "top"}, names(got))
	for i, rec := range got {
		assert.Equal(t, i+1, rec.Position)
	}

	out := h.ok("check", "items")
	assert.Contains(t, out, sec.ID)
}

func TestReparentAndSiblings(t *testing.T) {
	h := newHarness(t)
	s1 := h.add("sections")
	s2 := h.add("sections")
	a := h.add("items", "--parent", s1.ID, "--name", "a")
	b := h.add("items", "--parent", s1.ID, "--name", "b")
	h.add("items", "--parent", s1.ID, "--name", "c", "--hidden")
	h.add("items", "--parent", s2.ID, "--name", "x")

	var sibs []types.Record
	require.NoError(t, json.Unmarshal([]byte(h.ok("--json", "siblings", "items", a.ID, "--lower")), &sibs))
	assert.Equal(t, []string{"b", "c"}, names(sibs))
	require.NoError(t, json.Unmarshal([]byte(h.ok("--json", "siblings", "items", a.ID, "--lower", "--visible")), &sibs))
	assert.Equal(t, []string{"b"}, names(sibs))

	h.ok("reparent", b.ID, s2.ID, "--at", "1")
	assert.Equal(t, []string{"a", "c"}, names(h.list("items", "--parent", s1.ID)))
	assert.Equal(t, []string{"b", "x"}, names(h.list("items", "--parent", s2.ID)))
}

func TestExitCodes(t *testing.T) {
	h := newHarness(t)
	sec := h.add("sections")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown table", []string{"add", "widgets"}, exitUserError},
		{"missing record", []string{"remove", "sections", "nope"}, exitUserError},
		{"no move flag", []string{"move", "sections", sec.ID}, exitUserError},
		{"two move flags", []string{"move", "sections", sec.ID, "--up", "--down"}, exitUserError},
		{"bad flag", []string{"list", "sections", "--colour"}, exitUserError},
		{"wrong arg count", []string{"remove", "sections"}, exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := h.run(tt.args...)
			assert.Equal(t, tt.want, code)
			assert.Contains(t, errOut, "Error:")
		})
	}
}

func TestStrictFromEnvironment(t *testing.T) {
	h := newHarness(t)
	h.add("sections")
	t.Setenv("RANKS_STRICT", "true")

	_, errOut, code := h.run("add", "sections", "--at", "5")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, types.ErrInvalidPosition.Error())
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"one", "two", "three"} {
		h.add("sections", "--name", name)
	}
	file := filepath.Join(t.TempDir(), "sections.jsonl")
	assert.Contains(t, h.ok("export", "sections", file), "exported 3 sections")

	other := newHarness(t)
	assert.Contains(t, other.ok("import", "sections", file), "imported 3 sections")
	assert.Equal(t, []string{"one", "two", "three"}, names(other.list("sections")))
	other.ok("check", "sections")
	assert.Contains(t, other.ok("repair", "sections"), "(0 moved)")
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(types.ErrNotContiguous))
	assert.Equal(t, exitSysError, exitCode(assert.AnError))
}

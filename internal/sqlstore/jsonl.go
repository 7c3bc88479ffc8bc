package sqlstore

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// readJSONL reads a JSONL file and returns each non-empty, parseable line.
// Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to path: temp file, fsync, rename.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Export writes every record of the store to path as JSONL, ordered by scope
// then position. It returns the number of records written.
func Export(ctx context.Context, s *Store, path string) (int, error) {
	recs, err := s.Fetch(ctx, nil)
	if err != nil {
		return 0, err
	}
	lines := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		b, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("encoding %s: %w", rec.ID, err)
		}
		lines = append(lines, b)
	}
	if err := writeJSONL(path, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

// Import inserts the JSONL records at path in one transaction. Lines that do
// not decode into a record with an ID are skipped. Imported records are
// appended to their scope in the order of their stored positions, so an
// export loaded into an empty store comes back unchanged. The returned scopes
// are the ones that received rows.
func Import(ctx context.Context, s *Store, path string) (int, []types.ScopeKey, error) {
	lines, err := readJSONL(path)
	if err != nil {
		return 0, nil, err
	}
	var recs []types.Record
	for _, line := range lines {
		var rec types.Record
		if err := json.Unmarshal(line, &rec); err != nil || rec.ID == "" {
			continue
		}
		if !s.list.Scoped() {
			rec.ParentID = nil
		}
		recs = append(recs, rec)
	}
	slices.SortStableFunc(recs, func(a, b types.Record) int {
		if c := compareScopes(s.scopeOf(a), s.scopeOf(b)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	var touched []types.ScopeKey
	err = s.WithinTx(ctx, func(st types.RecordStore) error {
		next := make(map[types.ScopeKey]int)
		for _, rec := range recs {
			scope := s.scopeOf(rec)
			if _, ok := next[scope]; !ok {
				count, err := st.Count(ctx, scope)
				if err != nil {
					return err
				}
				next[scope] = count
				touched = append(touched, scope)
			}
			next[scope]++
			rec.Position = next[scope]
			if _, err := st.Create(ctx, rec); err != nil {
				return fmt.Errorf("importing %s: %w", rec.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return len(recs), touched, nil
}

func compareScopes(a, b types.ScopeKey) int {
	if a.Valid != b.Valid {
		if a.Valid {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Value, b.Value)
}

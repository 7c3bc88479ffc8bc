package sqlstore

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect describes the differences between the SQL engines a Store runs on.
type Dialect struct {
	// Name identifies the dialect in logs and errors.
	Name string

	// Numbered selects $1, $2, ... placeholders instead of ?.
	Numbered bool

	// IsConflict reports whether a driver error means another row holds
	// the slot: a unique violation, or a serialization failure on engines
	// that raise one.
	IsConflict func(err error) bool

	// TxOptions are passed to BeginTx.
	TxOptions *sql.TxOptions

	// DeferredUniqueness is true when the unique constraint is checked at
	// commit instead of on every row write.
	DeferredUniqueness bool
}

// Rebind rewrites ? placeholders for the dialect. Queries in this package
// contain no literal question marks.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) conflict(err error) bool {
	return err != nil && d.IsConflict != nil && d.IsConflict(err)
}

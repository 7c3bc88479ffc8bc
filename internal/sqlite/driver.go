package sqlite

import (
	"errors"
	"net/url"

	mattn "github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/ranks/internal/sqlstore"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

// busyTimeoutMS bounds how long a writer waits for the database lock.
const busyTimeoutMS = "5000"

// dsn builds the connection string for driver. Both drivers open write
// transactions with BEGIN IMMEDIATE so two processes cannot interleave the
// read and write halves of a shift plan.
func dsn(driver, path string) string {
	q := url.Values{}
	q.Set("_txlock", "immediate")
	if driver == types.DriverMattn {
		q.Set("_busy_timeout", busyTimeoutMS)
		q.Set("_foreign_keys", "on")
	} else {
		q.Add("_pragma", "busy_timeout("+busyTimeoutMS+")")
		q.Add("_pragma", "foreign_keys(1)")
	}
	return "file:" + path + "?" + q.Encode()
}

// isConflict reports unique constraint failures from either driver.
func isConflict(err error) bool {
	var me *sqlite.Error
	if errors.As(err, &me) {
		return me.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE ||
			me.Code() == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	var ce mattn.Error
	if errors.As(err, &ce) {
		return ce.ExtendedCode == mattn.ErrConstraintUnique ||
			ce.ExtendedCode == mattn.ErrConstraintPrimaryKey
	}
	return false
}

// Dialect is the sqlstore dialect for SQLite. Uniqueness is always checked
// per statement.
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:       "sqlite",
		IsConflict: isConflict,
	}
}

// Package sqlstore implements types.RecordStore over database/sql. One Store
// serves one list table; the Dialect supplies placeholder syntax and the
// driver-specific unique-violation check, so the same queries run on SQLite
// and PostgreSQL.
package sqlstore

// Package types defines the RecordStore and Hooks contracts, the orderable
// record and shift entities, configuration, and the standard errors shared by
// the ranks positioning engine and its storage backends.
package types

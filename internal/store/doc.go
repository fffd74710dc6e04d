// Package store persists favorites and download history in SQLite.
//
// A single Store owns the database file under the configured data directory
// and holds a file lock so concurrent tunebot processes do not interleave
// writes. All operations retry transparently on SQLITE_BUSY.
package store

// Package sqlite provides a SQLite-based implementation of the metadata
// store interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It implements the
// DocumentStore and ConversationStore interfaces through a single database
// connection.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Deleting a document cascades to its conversations
// and their messages.
//
// # Data Location
//
// By default, the database is stored at ~/.askbase/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite

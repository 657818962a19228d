// Package state defines the durable key-value port used to persist filter
// sets and filter presets, plus the stores that implement it.
//
// Responsibilities:
//   - Store only gets/sets/deletes opaque values under a string key. It makes
//     no assumptions about the payload format.
//   - Ref derives the canonical storage keys for one filter-enabled screen:
//     the bare namespace holds the last-applied filter set and
//     `{namespace}_saved` holds the preset list.
//   - LoadJSON/SaveJSON layer JSON (de)serialization on top of a Store. A
//     payload that fails to decode is reported as *DecodeError so callers can
//     treat corrupt data as absent.
//
// Implementations:
//
//	MemoryStore  - tests and examples
//	FileStore    - one JSON document on disk, handy for CLIs
//	SQLiteStore  - a single table in a SQLite database (modernc.org/sqlite)
package state

// Package store persists structural type fingerprints across builds.
//
// The replacement pass refuses indirect-load shortcuts for types whose shape
// is not stable between the build-time image and the runtime image. The
// store is the durable side of that check: each build records the
// fingerprints it compiled against, keyed by universe name, and later
// builds compare against them. A type whose recorded fingerprint no longer
// matches the universe is drift, and drift is surfaced, never silently
// overwritten.
//
// Storage is a single SQLite database opened in WAL mode with a single
// writer connection.
package store

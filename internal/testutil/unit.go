package testutil

import (
	"io"
	"log/slog"
)

// FixedUnit is a fixed compilation-unit token for deterministic tests.
//
// The replacement pass stamps errors and logs with a fresh UUIDv7 token per
// run; golden-file comparison needs the same token every run. Scenarios
// that care about traceability can override it.
const FixedUnit = "test-unit-00000000-0000-0000-0000-000000000001"

// SilentLogger returns a logger that discards everything. Pass runs under
// test stay quiet unless a test opts into output.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

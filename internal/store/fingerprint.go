package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Record is one persisted fingerprint: the structural fingerprint a build
// observed for a type, keyed by the universe it was compiled from.
type Record struct {
	Universe    string
	TypeName    string
	Fingerprint uint64
	RecordedAt  time.Time
}

// DriftError reports a fingerprint write that conflicts with an existing
// record: the type's shape changed since it was first recorded.
type DriftError struct {
	Universe string
	TypeName string
	Recorded uint64
	Observed uint64
}

// Error implements the error interface.
func (e *DriftError) Error() string {
	return fmt.Sprintf("fingerprint drift for %s in universe %q: recorded %#x, observed %#x",
		e.TypeName, e.Universe, e.Recorded, e.Observed)
}

// IsDrift returns true if the error is a fingerprint-drift error.
// Uses errors.As to handle wrapped errors.
func IsDrift(err error) bool {
	var de *DriftError
	return errors.As(err, &de)
}

// Put records a fingerprint. Writing the same (universe, type, fingerprint)
// again is a no-op; writing a different fingerprint for an existing record
// returns a DriftError and leaves the stored value untouched.
//
// Fingerprints are stored as the int64 with the same bit pattern: SQLite
// INTEGER is signed 64-bit, so the conversion is lossless both ways.
func (s *Store) Put(ctx context.Context, rec Record) error {
	existing, ok, err := s.Get(ctx, rec.Universe, rec.TypeName)
	if err != nil {
		return fmt.Errorf("put fingerprint: %w", err)
	}
	if ok {
		if existing == rec.Fingerprint {
			return nil
		}
		return &DriftError{
			Universe: rec.Universe,
			TypeName: rec.TypeName,
			Recorded: existing,
			Observed: rec.Fingerprint,
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fingerprints (universe, type_name, fingerprint)
		VALUES (?, ?, ?)
		ON CONFLICT(universe, type_name) DO NOTHING
	`, rec.Universe, rec.TypeName, int64(rec.Fingerprint))
	if err != nil {
		return fmt.Errorf("put fingerprint: %w", err)
	}
	return nil
}

// Get returns the recorded fingerprint for a type, and whether one exists.
func (s *Store) Get(ctx context.Context, universe, typeName string) (uint64, bool, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint FROM fingerprints
		WHERE universe = ? AND type_name = ?
	`, universe, typeName).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get fingerprint: %w", err)
	}
	return uint64(v), true, nil
}

// List returns all records for a universe, ordered by type name for
// deterministic output.
//
// Returns an empty slice (not nil) if no records exist for the universe.
func (s *Store) List(ctx context.Context, universe string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT universe, type_name, fingerprint, recorded_at
		FROM fingerprints
		WHERE universe = ?
		ORDER BY type_name ASC
	`, universe)
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var fp int64
		var recorded string
		if err := rows.Scan(&rec.Universe, &rec.TypeName, &fp, &recorded); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		rec.Fingerprint = uint64(fp)
		if ts, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
			rec.RecordedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return records, nil
}

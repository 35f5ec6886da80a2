package store

import (
	"context"
	"fmt"

	"github.com/keel-lang/keel/internal/meta"
)

// RecordedPrints serves fingerprint queries from a snapshot of the store.
// It answers from memory: construction reads the universe's records once,
// so a pass run never touches the database.
//
// Types with no record report 0, which the pass treats as "unknown" and
// refuses to shortcut. That makes a stale or partial registry fail closed.
//
// Thread-safety: the snapshot is immutable after construction and safe for
// concurrent readers.
type RecordedPrints struct {
	universe string
	prints   map[string]uint64
}

var _ meta.FingerprintProvider = (*RecordedPrints)(nil)

// LoadProvider snapshots the named universe's records into a provider.
func (s *Store) LoadProvider(ctx context.Context, universe string) (*RecordedPrints, error) {
	records, err := s.List(ctx, universe)
	if err != nil {
		return nil, fmt.Errorf("load provider: %w", err)
	}
	prints := make(map[string]uint64, len(records))
	for _, rec := range records {
		prints[rec.TypeName] = rec.Fingerprint
	}
	return &RecordedPrints{universe: universe, prints: prints}, nil
}

// Universe returns the universe name the snapshot was loaded for.
func (p *RecordedPrints) Universe() string { return p.universe }

// Len returns the number of recorded types in the snapshot.
func (p *RecordedPrints) Len() int { return len(p.prints) }

// FingerprintOf returns the recorded fingerprint for t's name, or 0 when no
// record exists.
func (p *RecordedPrints) FingerprintOf(t *meta.Type) uint64 {
	return p.prints[t.Name()]
}

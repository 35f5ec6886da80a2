package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/keel-lang/keel/internal/meta"
)

// Drift is one type whose observed fingerprint disagrees with the store.
type Drift struct {
	TypeName string
	Recorded uint64
	Observed uint64
}

// SyncResult summarizes one Sync run.
type SyncResult struct {
	// Added counts types recorded for the first time.
	Added int
	// Unchanged counts types whose fingerprint matched the store.
	Unchanged int
	// Skipped counts types with no stable fingerprint (unstable types,
	// primitives, arrays).
	Skipped int
	// Drifted lists types whose shape changed since they were recorded.
	Drifted []Drift
}

// Sync records the fingerprints of every type in the universe under the
// given name. Existing matching records are left alone; conflicting ones
// are collected as drift rather than overwritten. Types that fingerprint
// to zero carry no stable shape and are skipped.
//
// Sync always runs to completion: drift in one type does not stop the
// remaining types from being recorded.
func (s *Store) Sync(ctx context.Context, name string, u *meta.Universe) (*SyncResult, error) {
	res := &SyncResult{}
	for _, typeName := range u.TypeNames() {
		t, err := u.Lookup(typeName)
		if err != nil {
			return nil, fmt.Errorf("sync universe %q: %w", name, err)
		}
		if t.IsPrimitive() || t.IsArray() {
			// Stable by definition; nothing useful to compare across builds.
			res.Skipped++
			continue
		}
		fp := u.FingerprintOf(t)
		if fp == 0 {
			res.Skipped++
			continue
		}

		existing, ok, err := s.Get(ctx, name, typeName)
		if err != nil {
			return nil, fmt.Errorf("sync universe %q: %w", name, err)
		}
		if ok {
			if existing == fp {
				res.Unchanged++
				continue
			}
			res.Drifted = append(res.Drifted, Drift{
				TypeName: typeName,
				Recorded: existing,
				Observed: fp,
			})
			continue
		}

		err = s.Put(ctx, Record{Universe: name, TypeName: typeName, Fingerprint: fp})
		var de *DriftError
		if errors.As(err, &de) {
			res.Drifted = append(res.Drifted, Drift{
				TypeName: typeName,
				Recorded: de.Recorded,
				Observed: de.Observed,
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sync universe %q: %w", name, err)
		}
		res.Added++
	}
	return res, nil
}

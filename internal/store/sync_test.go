package store

import (
	"context"
	"testing"

	"github.com/keel-lang/keel/internal/meta"
	"github.com/keel-lang/keel/internal/testutil"
)

func TestSync_RecordsUniverse(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := testutil.BuildUniverse()

	res, err := s.Sync(ctx, "app", u)
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if res.Added == 0 {
		t.Error("Sync() recorded nothing")
	}
	if len(res.Drifted) != 0 {
		t.Errorf("fresh Sync() reported drift: %v", res.Drifted)
	}
	// app.Hot is unstable and the primitives are definitional.
	if res.Skipped == 0 {
		t.Error("Sync() skipped nothing, expected unstable and primitive types skipped")
	}

	got, ok, err := s.Get(ctx, "app", "app.Main")
	if err != nil || !ok {
		t.Fatalf("Get(app.Main) failed: ok=%v err=%v", ok, err)
	}
	if want := u.FingerprintOf(u.MustLookup("app.Main")); got != want {
		t.Errorf("recorded %#x, expected %#x", got, want)
	}

	if _, ok, _ := s.Get(ctx, "app", "app.Hot"); ok {
		t.Error("unstable type was recorded")
	}
}

func TestSync_SecondRunIsUnchanged(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := testutil.BuildUniverse()

	first, err := s.Sync(ctx, "app", u)
	if err != nil {
		t.Fatalf("first Sync() failed: %v", err)
	}
	second, err := s.Sync(ctx, "app", u)
	if err != nil {
		t.Fatalf("second Sync() failed: %v", err)
	}
	if second.Added != 0 {
		t.Errorf("second Sync() added %d records", second.Added)
	}
	if second.Unchanged != first.Added {
		t.Errorf("second Sync() unchanged = %d, expected %d", second.Unchanged, first.Added)
	}
	if len(second.Drifted) != 0 {
		t.Errorf("second Sync() reported drift: %v", second.Drifted)
	}
}

func TestSync_DetectsDrift(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Sync(ctx, "app", testutil.BuildUniverse()); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	// Rebuild the universe with app.Other reshaped.
	changed := meta.NewUniverse()
	changed.MustDefine(meta.TypeDef{Name: "app.Other", Kind: meta.KindClass, Fields: []meta.Field{{Name: "count", TypeName: "int"}}})

	res, err := s.Sync(ctx, "app", changed)
	if err != nil {
		t.Fatalf("drift Sync() failed: %v", err)
	}
	if len(res.Drifted) != 1 {
		t.Fatalf("Drifted = %v, expected exactly app.Other", res.Drifted)
	}
	if res.Drifted[0].TypeName != "app.Other" {
		t.Errorf("drifted type = %q, expected app.Other", res.Drifted[0].TypeName)
	}

	// The original record survives.
	got, _, err := s.Get(ctx, "app", "app.Other")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got == changed.FingerprintOf(changed.MustLookup("app.Other")) {
		t.Error("drift overwrote the recorded fingerprint")
	}
}

func TestLoadProvider_ServesRecordedPrints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := testutil.BuildUniverse()

	if _, err := s.Sync(ctx, "app", u); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	p, err := s.LoadProvider(ctx, "app")
	if err != nil {
		t.Fatalf("LoadProvider() failed: %v", err)
	}
	if p.Universe() != "app" {
		t.Errorf("Universe() = %q", p.Universe())
	}
	if p.Len() == 0 {
		t.Fatal("provider snapshot is empty")
	}

	main := u.MustLookup("app.Main")
	if got, want := p.FingerprintOf(main), u.FingerprintOf(main); got != want {
		t.Errorf("FingerprintOf(app.Main) = %#x, expected %#x", got, want)
	}

	// Unknown types fail closed.
	if got := p.FingerprintOf(u.MustLookup("app.Hot")); got != 0 {
		t.Errorf("FingerprintOf(app.Hot) = %#x, expected 0", got)
	}
}

package store

import (
	"context"
	"testing"
)

func TestPut_AndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := Record{Universe: "app", TypeName: "app.Main", Fingerprint: 0xDEADBEEFCAFE}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, ok, err := s.Get(ctx, "app", "app.Main")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !ok {
		t.Fatal("Get() found no record")
	}
	if got != rec.Fingerprint {
		t.Errorf("Get() = %#x, expected %#x", got, rec.Fingerprint)
	}
}

func TestPut_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := Record{Universe: "app", TypeName: "app.Main", Fingerprint: 42}
	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put() iteration %d failed: %v", i, err)
		}
	}
}

func TestPut_ReportsDrift(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, Record{Universe: "app", TypeName: "app.Main", Fingerprint: 1}); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	err := s.Put(ctx, Record{Universe: "app", TypeName: "app.Main", Fingerprint: 2})
	if err == nil {
		t.Fatal("Put() with conflicting fingerprint should fail")
	}
	if !IsDrift(err) {
		t.Errorf("expected drift error, got: %v", err)
	}

	// The stored value must be untouched.
	got, _, err := s.Get(ctx, "app", "app.Main")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != 1 {
		t.Errorf("drift overwrote the record: got %#x", got)
	}
}

func TestPut_HighBitFingerprintRoundTrips(t *testing.T) {
	// Fingerprints above 1<<63 must survive the signed INTEGER column.
	s := openTestStore(t)
	ctx := context.Background()

	const fp = uint64(0xFFFFFFFFFFFFFFFF)
	if err := s.Put(ctx, Record{Universe: "app", TypeName: "app.Main", Fingerprint: fp}); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	got, ok, err := s.Get(ctx, "app", "app.Main")
	if err != nil || !ok {
		t.Fatalf("Get() failed: ok=%v err=%v", ok, err)
	}
	if got != fp {
		t.Errorf("round trip lost bits: got %#x, expected %#x", got, fp)
	}
}

func TestGet_MissingRecord(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get(context.Background(), "app", "app.Missing")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok {
		t.Error("Get() reported a record that was never written")
	}
}

func TestList_OrderedByTypeName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, rec := range []Record{
		{Universe: "app", TypeName: "app.Zebra", Fingerprint: 3},
		{Universe: "app", TypeName: "app.Alpha", Fingerprint: 1},
		{Universe: "app", TypeName: "app.Mid", Fingerprint: 2},
		{Universe: "other", TypeName: "x.Y", Fingerprint: 9},
	} {
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put(%s) failed: %v", rec.TypeName, err)
		}
	}

	records, err := s.List(ctx, "app")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	want := []string{"app.Alpha", "app.Mid", "app.Zebra"}
	if len(records) != len(want) {
		t.Fatalf("List() returned %d records, expected %d", len(records), len(want))
	}
	for i, name := range want {
		if records[i].TypeName != name {
			t.Errorf("records[%d].TypeName = %q, expected %q", i, records[i].TypeName, name)
		}
	}
}

func TestList_EmptyUniverse(t *testing.T) {
	s := openTestStore(t)

	records, err := s.List(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if records == nil {
		t.Error("List() returned nil, expected empty slice")
	}
	if len(records) != 0 {
		t.Errorf("List() returned %d records, expected 0", len(records))
	}
}

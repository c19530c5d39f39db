package store

import (
	"context"
	"testing"
)

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	attrs := map[string]string{"username": "alice"}
	if err := st.Put(ctx, "users", "u-1", attrs); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Mutating the caller's map or a returned map must not leak into the
	// stored record.
	attrs["username"] = "mallory"

	got, found, err := st.Get(ctx, "users", "u-1")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if got["username"] != "alice" {
		t.Fatalf("stored record aliased caller map: %v", got)
	}

	got["username"] = "mallory"
	again, _, _ := st.Get(ctx, "users", "u-1")
	if again["username"] != "alice" {
		t.Fatalf("returned map aliased stored record: %v", again)
	}
}

func TestMemoryStoreDeleteAbsent(t *testing.T) {
	st := NewMemoryStore()
	if err := st.Delete(context.Background(), "users", "missing"); err != nil {
		t.Fatalf("Delete on absent key: %v", err)
	}
}

func TestMemoryStoreScanEmpty(t *testing.T) {
	st := NewMemoryStore()
	records, err := st.Scan(context.Background(), "users")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Scan on empty table returned %d records", len(records))
	}
}

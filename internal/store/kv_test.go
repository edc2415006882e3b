package store

import (
	"testing"

	"github.com/dukerupert/grocerymate/internal/database"
)

func setupKVTestDB(t *testing.T) *KVStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewKVStore(db)
}

func TestKVGetMissing(t *testing.T) {
	kv := setupKVTestDB(t)

	got, err := kv.Get("groceryUser")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing key, got %q", got)
	}
}

func TestKVSetGetOverwrite(t *testing.T) {
	kv := setupKVTestDB(t)

	if err := kv.Set("groceryItems_u1", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("groceryItems_u1", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := kv.Get("groceryItems_u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Errorf("value = %q, want overwritten value", got)
	}
}

func TestKVDelete(t *testing.T) {
	kv := setupKVTestDB(t)

	kv.Set("userEmail", []byte("a@example.com"))
	if err := kv.Delete("userEmail"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := kv.Get("userEmail")
	if got != nil {
		t.Errorf("expected nil after delete, got %q", got)
	}

	// Deleting a missing key is not an error
	if err := kv.Delete("userEmail"); err != nil {
		t.Errorf("delete missing: %v", err)
	}
}

func TestKVKeysPrefix(t *testing.T) {
	kv := setupKVTestDB(t)

	kv.Set("groceryItems_b", []byte(`[]`))
	kv.Set("groceryItems_a", []byte(`[]`))
	kv.Set("groceryFriends_a", []byte(`[]`))

	keys, err := kv.Keys("groceryItems_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "groceryItems_a" || keys[1] != "groceryItems_b" {
		t.Errorf("keys = %v, want [groceryItems_a groceryItems_b]", keys)
	}
}

func TestKVSnapshotRestore(t *testing.T) {
	src := setupKVTestDB(t)
	src.Set("groceryAppUsers", []byte(`[{"id":"u1"}]`))
	src.Set("apiLogs", []byte(`[]`))

	snap, err := src.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}

	dst := setupKVTestDB(t)
	dst.Set("apiLogs", []byte(`[{"old":true}]`))
	dst.Set("userEmail", []byte("stale@example.com"))
	if err := dst.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, _ := dst.Get("apiLogs")
	if string(got) != `[]` {
		t.Errorf("apiLogs = %q, want restored value", got)
	}
	got, _ = dst.Get("groceryAppUsers")
	if string(got) != `[{"id":"u1"}]` {
		t.Errorf("groceryAppUsers = %q", got)
	}
	if got, _ := dst.Get("userEmail"); got != nil {
		t.Errorf("userEmail = %q, want removed", got)
	}
}

package kv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_SetGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, ok := store.Get("kt_students"); ok {
		t.Fatalf("expected miss for absent key")
	}

	value := []byte(`[{"id":"s1"}]`)
	if err := store.Set("kt_students", value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := store.Get("kt_students")
	if !ok {
		t.Fatalf("expected hit after Set")
	}
	if string(got) != string(value) {
		t.Errorf("got %q, want %q", got, value)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Set("kt_staff", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := reopened.Get("kt_staff"); !ok {
		t.Errorf("value lost across reopen")
	}
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Set("kt_students", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "kt_students.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temporary file survived the rename")
	}
}

func TestFileStore_RemoveIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := store.Set("kt_visitors", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Remove("kt_visitors"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := store.Get("kt_visitors"); ok {
		t.Fatalf("value still readable after Remove")
	}
	if err := store.Remove("kt_visitors"); err != nil {
		t.Errorf("second Remove should be a no-op, got %v", err)
	}
}

func TestFileStore_Keys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	for _, key := range []string{"kt_students", "kt_staff", "kt_meal_plans"} {
		if err := store.Set(key, []byte(`[]`)); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	keys := store.Keys()
	if len(keys) != 3 {
		t.Fatalf("got %d keys, want 3: %v", len(keys), keys)
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for _, want := range []string{"kt_students", "kt_staff", "kt_meal_plans"} {
		if !seen[want] {
			t.Errorf("missing key %s in %v", want, keys)
		}
	}
}

package statecache

import "testing"

func TestPutPersistsAndStampsLastUpdate(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, true)

	stamped, err := c.Put("kitchen_light", State{"STATE": "ON"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := stamped[lastUpdateKey]; !ok {
		t.Fatal("expected _last_update to be set")
	}

	c2 := New(dir, true)
	if err := c2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := c2.Get("kitchen_light")
	if !ok {
		t.Fatal("expected state to survive reload")
	}
	if got["STATE"] != "ON" {
		t.Errorf("STATE = %v, want ON", got["STATE"])
	}
}

func TestLoadForRestoreMarksRestoredPreservesTimestamp(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, true)
	stamped, err := c.Put("sensor_a", State{"TMP": 21.5})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	originalTimestamp := stamped[lastUpdateKey]

	c2 := New(dir, true)
	restored, err := c2.LoadForRestore()
	if err != nil {
		t.Fatalf("LoadForRestore: %v", err)
	}

	s, ok := restored["sensor_a"]
	if !ok {
		t.Fatal("expected sensor_a in restored states")
	}
	if s[restoredKey] != true {
		t.Error("expected _restored to be true")
	}
	if s[lastUpdateKey] != originalTimestamp {
		t.Errorf("_last_update = %v, want unchanged %v", s[lastUpdateKey], originalTimestamp)
	}
}

func TestPutWithCachingDisabledDoesNotPersist(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, false)
	if _, err := c.Put("sensor_a", State{"TMP": 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c2 := New(dir, true)
	if err := c2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c2.Get("sensor_a"); ok {
		t.Error("expected no persisted state when caching disabled")
	}
}

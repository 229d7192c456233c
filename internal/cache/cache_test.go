package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/shiji/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("014", "| 公元前 |")
	b := Key("014", "| 公元前 |")
	if a != b {
		t.Errorf("Key not deterministic: %s vs %s", a, b)
	}
	if Key("01", "4| 公元前 |") == a {
		t.Error("Key must separate parts")
	}
	if len(a) != len("shiji:v1:")+64 {
		t.Errorf("unexpected key length %d", len(a))
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
	if err := c.Set("k", []byte(`{"a":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != `{"a":1}` {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	_ = c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("015", "text")

	if err := c.Set(key, []byte(`{"id":"015"}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != `{"id":"015"}` {
		t.Errorf("Get = %s", got)
	}

	if err := c.Set("bad", []byte("not json"), 0); err == nil {
		t.Error("expected error for non-JSON value")
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestDiskCacheExpired(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("old", []byte(`1`), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get("old"); ok {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "old.json")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestDiskCacheCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	if err := os.WriteFile(filepath.Join(dir, "k.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected corrupt entry to miss")
	}
}

func TestLayeredCachePromotes(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set("k", []byte(`[1,2]`), 0); err != nil {
		t.Fatal(err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	got, ok := c.Get("k")
	if !ok || string(got) != `[1,2]` {
		t.Fatalf("Get = %s, %v", got, ok)
	}

	// Served from memory once the disk copy is gone.
	_ = disk.Clear()
	if _, ok := c.Get("k"); !ok {
		t.Error("expected promoted memory hit")
	}
}

func TestJSONHelpers(t *testing.T) {
	type table struct {
		ID string `json:"id"`
	}

	var out table
	if GetJSON(nil, "k", &out) {
		t.Error("nil cache must miss")
	}
	if err := SetJSON(nil, "k", table{ID: "x"}, 0); err != nil {
		t.Errorf("SetJSON on nil cache: %v", err)
	}

	c := New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour})
	if err := SetJSON(c, "k", table{ID: "022"}, 0); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if !GetJSON(c, "k", &out) || out.ID != "022" {
		t.Errorf("GetJSON = %+v", out)
	}

	if New(model.CacheConfig{}) != nil {
		t.Error("disabled cache should be nil")
	}
}

package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFileCacheSetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache returned error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "plan:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	data, ok, err := c.Get(ctx, "plan:abc")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("Get reported miss for stored key")
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want %q", data, "payload")
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "never:set")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Error("Get reported hit for missing key")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	_, ok, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Error("expired entry still returned as hit")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("deleted entry still returned as hit")
	}
	// Deleting a missing key is not an error.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key returned error: %v", err)
	}
}

func TestFileCacheStatsAndClear(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}

	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("data-"+key), 0); err != nil {
			t.Fatal(err)
		}
	}

	entries, size, err := fc.Stats()
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if entries != 3 {
		t.Errorf("Stats entries = %d, want 3", entries)
	}
	if size <= 0 {
		t.Errorf("Stats size = %d, want > 0", size)
	}

	if err := fc.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	entries, _, err = fc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if entries != 0 {
		t.Errorf("Stats entries after Clear = %d, want 0", entries)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	_, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Error("null cache reported a hit")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete returned error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	keyer := NewDefaultKeyer()
	base := PlanKeyOpts{Width: 800, Height: 600, Seed: 0, SortKey: "category", SortDir: "asc", CatColumn: 0, CntColumn: 1}

	k1 := keyer.PlanKey("hash-a", base)
	if !strings.HasPrefix(k1, "plan:") {
		t.Errorf("plan key %q lacks plan: prefix", k1)
	}
	if k2 := keyer.PlanKey("hash-a", base); k2 != k1 {
		t.Errorf("same inputs produced different keys: %q vs %q", k1, k2)
	}

	variants := []PlanKeyOpts{
		{Width: 801, Height: 600, SortKey: "category", SortDir: "asc", CntColumn: 1},
		{Width: 800, Height: 600, Seed: 0.5, SortKey: "category", SortDir: "asc", CntColumn: 1},
		{Width: 800, Height: 600, SortKey: "total", SortDir: "asc", CntColumn: 1},
		{Width: 800, Height: 600, SortKey: "category", SortDir: "desc", CntColumn: 1},
		{Width: 800, Height: 600, SortKey: "category", SortDir: "asc", CatColumn: 2, CntColumn: 1},
	}
	for i, opts := range variants {
		if keyer.PlanKey("hash-a", opts) == k1 {
			t.Errorf("variant %d produced the same key as the base options", i)
		}
	}
	if keyer.PlanKey("hash-b", base) == k1 {
		t.Error("different dataset hashes produced the same key")
	}

	a1 := keyer.ArtifactKey("plan-hash", ArtifactKeyOpts{Format: "svg"})
	a2 := keyer.ArtifactKey("plan-hash", ArtifactKeyOpts{Format: "png"})
	if !strings.HasPrefix(a1, "artifact:") {
		t.Errorf("artifact key %q lacks artifact: prefix", a1)
	}
	if a1 == a2 {
		t.Error("different formats produced the same artifact key")
	}

	// The raster scale changes the PNG bytes, so it changes the key.
	p1 := keyer.ArtifactKey("plan-hash", ArtifactKeyOpts{Format: "png", PNGScale: 1})
	p4 := keyer.ArtifactKey("plan-hash", ArtifactKeyOpts{Format: "png", PNGScale: 4})
	if p1 == p4 {
		t.Error("different PNG scales produced the same artifact key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "charts:prod:")

	opts := PlanKeyOpts{Width: 800, Height: 600}
	got := scoped.PlanKey("h", opts)
	want := "charts:prod:" + inner.PlanKey("h", opts)
	if got != want {
		t.Errorf("scoped key = %q, want %q", got, want)
	}

	// Nil inner falls back to the default keyer.
	fallback := NewScopedKeyer(nil, "p:")
	if !strings.HasPrefix(fallback.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}), "p:artifact:") {
		t.Error("nil-inner scoped keyer did not use the default keyer")
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("Hash length = %d, want 64 hex chars", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("Hash is not deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("different inputs hashed identically")
	}
}

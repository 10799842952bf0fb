package floors

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPreloaderLoadsEveryFloor(t *testing.T) {
	loader := newGatedLoader()
	p := NewPreloader("maps", loader.load, 3)
	floors := DefaultTable().Floors

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.Start(ctx, floors)
	if p.InFlight() != len(floors) {
		t.Fatalf("expected %d loads in flight, got %d", len(floors), p.InFlight())
	}
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	for _, f := range floors {
		e, ok := p.Get(f.ID)
		if !ok || !e.Loaded() || e.Err() != nil || e.Image() == nil {
			t.Fatalf("floor %s not loaded: %+v", f.ID, e)
		}
	}
	if p.Poll() != 0 {
		t.Fatalf("nothing should be left to poll")
	}
}

func TestEntryOnLoad(t *testing.T) {
	e := &Entry{Floor: Floor{ID: "x"}}
	calls := 0
	e.OnLoad(func(*Entry) { calls++ })
	e.OnLoad(nil)
	if calls != 0 {
		t.Fatalf("callback should wait for the load")
	}

	e.complete(image.NewRGBA(image.Rect(0, 0, 1, 1)), nil)
	if calls != 1 {
		t.Fatalf("expected callback after load, got %d", calls)
	}

	e.OnLoad(func(*Entry) { calls++ })
	if calls != 2 {
		t.Fatalf("callback on a loaded entry should run immediately")
	}

	e.loaded = false
	e.complete(nil, os.ErrNotExist)
	if e.Image() == nil {
		t.Fatalf("a failed reload should keep the previous image")
	}
	if calls != 2 {
		t.Fatalf("callbacks must run only once")
	}
}

func TestAssetPath(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "srv", "Map1.jpg")

	tests := []struct {
		name string
		dir  string
		file string
		want string
	}{
		{"relative", "assets", "Map1.jpg", filepath.Join("assets", "Map1.jpg")},
		{"nested", "assets", "old/Map1.jpg", filepath.Join("assets", "old", "Map1.jpg")},
		{"absolute", "assets", abs, abs},
		{"no_dir", "", "Map1.jpg", "Map1.jpg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AssetPath(tc.dir, Floor{File: tc.file}); got != tc.want {
				t.Fatalf("AssetPath(%q, %q) = %q, want %q", tc.dir, tc.file, got, tc.want)
			}
		})
	}

	p := NewPreloader("assets", nil, 0)
	if got := p.Path(Floor{File: "Map1.jpg"}); got != AssetPath("assets", Floor{File: "Map1.jpg"}) {
		t.Fatalf("preloader path %s disagrees with AssetPath", got)
	}
}

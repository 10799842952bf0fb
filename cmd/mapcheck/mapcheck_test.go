package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/milk9111/campusmap/floors"
	"github.com/milk9111/campusmap/visits"
	"github.com/spf13/cobra"
)

func TestFindOrphans(t *testing.T) {
	fsys := fstest.MapFS{
		"MapCampus.jpg":     {Data: []byte("x")},
		"Map1.jpg":          {Data: []byte("x")},
		"Map1.webp":         {Data: []byte("x")},
		"Map9.jpg":          {Data: []byte("x")},
		"old/Map0.png":      {Data: []byte("x")},
		"old/Map1.jpg":      {Data: []byte("x")},
		"drafts/sketch.png": {Data: []byte("x")},
		"README.txt":        {Data: []byte("x")},
	}

	got, err := findOrphans(fsys, floors.DefaultTable(), []string{"drafts/**"})
	if err != nil {
		t.Fatalf("findOrphans: %v", err)
	}
	want := []string{"Map9.jpg", "old/Map0.png", "old/Map1.jpg"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected orphans %v, got %v", want, got)
	}
}

func TestFindOrphansNestedAssets(t *testing.T) {
	table, err := floors.ParseTable([]byte(`
default: ground
floors:
  - id: ground
    file: levels/Map2.png
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fsys := fstest.MapFS{
		"levels/Map2.png":  {Data: []byte("x")},
		"levels/Map2.webp": {Data: []byte("x")},
		"Map2.png":         {Data: []byte("x")},
		"Map2.webp":        {Data: []byte("x")},
	}

	got, err := findOrphans(fsys, table, nil)
	if err != nil {
		t.Fatalf("findOrphans: %v", err)
	}
	want := []string{"Map2.png", "Map2.webp"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected orphans %v, got %v", want, got)
	}
}

func TestWebPRel(t *testing.T) {
	tests := map[string]string{
		"Map3.jpg":          "Map3.webp",
		"levels/Map2.png":   "levels/Map2.webp",
		"./old/../Map1.jpg": "Map1.webp",
	}
	for in, want := range tests {
		if got := webpRel(in); got != want {
			t.Errorf("webpRel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"drafts/a.png", []string{"drafts/**"}, true},
		{"deep/nested/Map1.jpg", []string{"Map1.*"}, true},
		{"Map2.jpg", []string{"Map1.*"}, false},
		{"Map2.jpg", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := excluded(tc.path, tc.patterns); got != tc.want {
				t.Fatalf("excluded(%q, %v) = %v, want %v", tc.path, tc.patterns, got, tc.want)
			}
		})
	}
}

func TestWebPName(t *testing.T) {
	tests := map[string]string{
		"Map3.jpg":             "Map3.webp",
		"assets/MapCampus.png": "MapCampus.webp",
		"noext":                "noext.webp",
	}
	for in, want := range tests {
		if got := webpName(in); got != want {
			t.Errorf("webpName(%q) = %q, want %q", in, got, want)
		}
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 0x80, A: 0xff})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestConvertToWebP(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Map1.png")
	writePNG(t, src, 5, 4)

	dst := filepath.Join(dir, "out", "Map1.webp")
	if err := convertToWebP(src, dst); err != nil {
		t.Fatalf("convert: %v", err)
	}

	img, err := floors.DecodeFile(dst)
	if err != nil {
		t.Fatalf("decoding converted file: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Fatalf("unexpected bounds %v", b)
	}

	if err := convertToWebP(filepath.Join(dir, "missing.png"), dst); err == nil {
		t.Fatalf("expected error for a missing source")
	}
}

func TestCheckAssets(t *testing.T) {
	table, err := floors.ParseTable([]byte(`
default: a
floors:
  - id: a
    file: A.png
  - id: b
    file: B.png
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	load := func(path string) (image.Image, error) {
		if strings.HasSuffix(path, "B.png") {
			return nil, errors.New("corrupt")
		}
		return image.NewRGBA(image.Rect(0, 0, 8, 6)), nil
	}

	statuses := checkAssets(table, "maps", load, &lineReporter{w: io.Discard})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Err != nil || statuses[0].Width != 8 || statuses[0].Height != 6 {
		t.Fatalf("unexpected status for a: %+v", statuses[0])
	}
	if statuses[0].Path != filepath.Join("maps", "A.png") {
		t.Fatalf("unexpected path %s", statuses[0].Path)
	}
	if statuses[1].Err == nil {
		t.Fatalf("expected b to fail")
	}

	var buf bytes.Buffer
	if failed := printAssets(&buf, table, statuses); failed != 1 {
		t.Fatalf("expected 1 failure, got %d", failed)
	}
	if !strings.Contains(buf.String(), "a*") || !strings.Contains(buf.String(), "corrupt") {
		t.Fatalf("unexpected listing:\n%s", buf.String())
	}
}

func TestCheckAssetsDecodesFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "levels"), 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "levels", "Map2.png"), 5, 4)

	table, err := floors.ParseTable([]byte(`
floors:
  - id: "2"
    file: levels/Map2.png
  - id: "3"
    file: levels/Map3.png
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	statuses := checkAssets(table, dir, nil, &lineReporter{w: io.Discard})
	if want := floors.AssetPath(dir, table.Floors[0]); statuses[0].Path != want {
		t.Fatalf("expected path %s, got %s", want, statuses[0].Path)
	}
	if statuses[0].Err != nil || statuses[0].Width != 5 || statuses[0].Height != 4 {
		t.Fatalf("unexpected status for level 2: %+v", statuses[0])
	}
	if !errors.Is(statuses[1].Err, os.ErrNotExist) {
		t.Fatalf("expected a missing file error for level 3, got %v", statuses[1].Err)
	}
}

func TestPrintVisits(t *testing.T) {
	store, err := visits.OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := printVisits(cmd, store); err != nil {
		t.Fatalf("print: %v", err)
	}
	if got := buf.String(); got != "Visitors: 0\n" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := store.Record(context.Background()); err != nil {
		t.Fatalf("record: %v", err)
	}
	buf.Reset()
	if err := printVisits(cmd, store); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Visitors: 1\nLast visit: ") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := buf.String(); got != "mapcheck dev\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

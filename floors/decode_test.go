package floors

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
)

var mapColor = color.NRGBA{R: 200, G: 100, B: 50, A: 255}

func solidImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, mapColor)
		}
	}
	return img
}

// tgaBytes builds an uncompressed 24-bit top-left origin TGA filled with
// mapColor.
func tgaBytes(w, h int) []byte {
	header := []byte{
		0, 0, 2, // no id, no palette, truecolor
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		byte(w), byte(w >> 8),
		byte(h), byte(h >> 8),
		24, 0x20,
	}
	var buf bytes.Buffer
	buf.Write(header)
	for i := 0; i < w*h; i++ {
		buf.Write([]byte{mapColor.B, mapColor.G, mapColor.R})
	}
	return buf.Bytes()
}

func writeImageFile(t *testing.T, path string, encode func(io.Writer) error) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := encode(out); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeFileFormats(t *testing.T) {
	src := solidImage(3, 2)
	encodeJPEG := func(w io.Writer) error { return jpeg.Encode(w, src, &jpeg.Options{Quality: 95}) }
	encodePNG := func(w io.Writer) error { return png.Encode(w, src) }
	encodeWebP := func(w io.Writer) error { return nativewebp.Encode(w, src, nil) }
	encodeTGA := func(w io.Writer) error {
		_, err := w.Write(tgaBytes(3, 2))
		return err
	}

	tests := []struct {
		name   string
		file   string
		encode func(io.Writer) error
		lossy  bool
	}{
		{"jpg", "Map1.jpg", encodeJPEG, true},
		{"jpeg_upper", "Map1.JPEG", encodeJPEG, true},
		{"png", "Map1.png", encodePNG, false},
		{"webp", "Map1.webp", encodeWebP, false},
		{"tga", "Map1.tga", encodeTGA, false},
		{"sniffed_jpg", "Map1.img", encodeJPEG, true},
		{"sniffed_png", "Map1", encodePNG, false},
		{"sniffed_webp", "Map1.bin", encodeWebP, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			writeImageFile(t, path, tc.encode)

			img, err := DecodeFile(path)
			if err != nil {
				t.Fatalf("decode %s: %v", tc.file, err)
			}
			if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
				t.Fatalf("unexpected bounds %v", b)
			}
			if tc.lossy {
				return
			}
			got := color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA)
			if got != mapColor {
				t.Fatalf("pixel (1,1) = %v, want %v", got, mapColor)
			}
		})
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := DecodeFile(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "Map1.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFile(bad); err == nil {
		t.Fatalf("expected error for a corrupt image")
	}
}

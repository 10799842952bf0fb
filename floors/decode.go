package floors

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

type LoadFunc func(path string) (image.Image, error)

type decodeFunc func(io.Reader) (image.Image, error)

// The tga package registers itself with an empty magic string, which matches
// any input, so image.Decode is never used here.
var decoders = map[string]decodeFunc{
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".png":  png.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// DecodeFile decodes a JPEG, PNG, WebP or TGA map image from disk. The format
// comes from the extension, falling back to the file's magic bytes.
func DecodeFile(path string) (image.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("floors: read %s: %w", path, err)
	}
	img, err := decoderFor(path, b)(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("floors: decode %s: %w", path, err)
	}
	return img, nil
}

func decoderFor(path string, b []byte) decodeFunc {
	if d, ok := decoders[strings.ToLower(filepath.Ext(path))]; ok {
		return d
	}
	switch {
	case bytes.HasPrefix(b, []byte("\xff\xd8")):
		return jpeg.Decode
	case bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode
	case len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP":
		return webp.Decode
	}
	// TGA has no leading signature.
	return tga.Decode
}

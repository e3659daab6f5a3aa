// Package texture provides image decoding for height-field sources.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Decode decodes image data, choosing the decoder from the file name extension.
// Unknown extensions fall back to content sniffing.
func Decode(data []byte, name string) (image.Image, error) {
	var img image.Image
	var err error

	switch strings.ToLower(filepath.Ext(name)) {
	case ".tga":
		img, err = DecodeTGA(data)
	case ".bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	case ".tif", ".tiff":
		img, err = tiff.Decode(bytes.NewReader(data))
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// Load reads and decodes an image file.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path)
}

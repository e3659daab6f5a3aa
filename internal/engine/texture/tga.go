package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeRLE          = 10 // RLE compressed true-color
	TGATypeRLEGray      = 11 // RLE compressed grayscale
)

const (
	tgaHeaderSize  = 18
	tgaTopToBottom = 0x20 // Descriptor bit 5
)

// DecodeTGA decodes a TGA image file.
// Supports true-color (24/32 bit) and 8-bit grayscale, uncompressed or RLE.
// Grayscale files decode to *image.Gray, which height-field exporters commonly write.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&tgaTopToBottom != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}

	gray := imageType == TGATypeGray || imageType == TGATypeRLEGray
	rle := imageType == TGATypeRLE || imageType == TGATypeRLEGray
	switch {
	case imageType != TGATypeUncompressed && imageType != TGATypeRLE && !gray:
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	case gray && bpp != 8:
		return nil, fmt.Errorf("unsupported grayscale TGA bit depth %d (only 8 supported)", bpp)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixels := data[offset:]
	bytesPerPixel := bpp / 8

	var img image.Image
	var set func(x, y int, px []byte)
	if gray {
		g := image.NewGray(image.Rect(0, 0, width, height))
		set = func(x, y int, px []byte) { g.SetGray(x, y, color.Gray{Y: px[0]}) }
		img = g
	} else {
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		set = func(x, y int, px []byte) {
			a := uint8(255)
			if len(px) == 4 {
				a = px[3]
			}
			// Stored as BGR(A)
			rgba.SetRGBA(x, y, color.RGBA{R: px[2], G: px[1], B: px[0], A: a})
		}
		img = rgba
	}

	// put writes the n-th pixel in file order, flipping bottom-up files.
	put := func(n int, px []byte) {
		x, y := n%width, n/width
		if !topToBottom {
			y = height - 1 - y
		}
		set(x, y, px)
	}

	count := width * height
	if !rle {
		if len(pixels) < count*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for n := range count {
			put(n, pixels[n*bytesPerPixel:(n+1)*bytesPerPixel])
		}
		return img, nil
	}

	decodeRLE(pixels, count, bytesPerPixel, put)
	return img, nil
}

// decodeRLE walks RLE packets, stopping quietly when the data runs out.
func decodeRLE(pixels []byte, count, bytesPerPixel int, put func(n int, px []byte)) {
	n, i := 0, 0
	for n < count && i < len(pixels) {
		packet := pixels[i]
		i++
		run := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+bytesPerPixel > len(pixels) {
				return
			}
			px := pixels[i : i+bytesPerPixel]
			i += bytesPerPixel
			for k := 0; k < run && n < count; k++ {
				put(n, px)
				n++
			}
			continue
		}

		for k := 0; k < run && n < count; k++ {
			if i+bytesPerPixel > len(pixels) {
				return
			}
			put(n, pixels[i:i+bytesPerPixel])
			i += bytesPerPixel
			n++
		}
	}
}

package recognizer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const jpegQuality = 85

// ResizeImage shrinks an image so its longer edge fits within maxSize,
// keeping aspect ratio. The result is always JPEG so backends receive a
// consistent format; images already within bounds are only re-encoded.
func ResizeImage(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if w, h, ok := fitWithin(img.Bounds(), maxSize); ok {
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin returns the target dimensions for bounds whose longer edge
// exceeds maxSize. ok is false when the image already fits.
func fitWithin(bounds image.Rectangle, maxSize int) (w, h int, ok bool) {
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxSize && height <= maxSize {
		return 0, 0, false
	}
	if width > height {
		return maxSize, height * maxSize / width, true
	}
	return width * maxSize / height, maxSize, true
}

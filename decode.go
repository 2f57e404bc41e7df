package meme

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	// Register the formats an image file picker typically accepts, including
	// WebP via x/image/webp.
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
)

// Decode reads an image from the reader, returning the decoded image and the
// detected format string ("png", "jpeg", "gif" or "webp").
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, format, nil
}

// DecodeImageBytes decodes raw image bytes.
func DecodeImageBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// EncodePNG writes the provided image to the writer as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

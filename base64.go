package meme

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

const (
	pngMediaType      = "image/png"
	downloadMediaType = "application/octet-stream"
)

// DecodeBase64Image decodes a base64-encoded image (optionally a data URL) into
// an image.Image. It returns the decoded image and the detected format string.
func DecodeBase64Image(input string) (image.Image, string, error) {
	data, err := decodeBase64Payload(input)
	if err != nil {
		return nil, "", err
	}
	return DecodeImageBytes(data)
}

// FileFromBase64 builds a file selection from a base64 payload or data URL.
func FileFromBase64(name, input string) (*File, error) {
	data, err := decodeBase64Payload(input)
	if err != nil {
		return nil, err
	}
	return &File{Name: name, Data: data}, nil
}

// EncodePNGToBase64 encodes an image as PNG and returns a base64 string.
func EncodePNGToBase64(img image.Image) (string, error) {
	var sb strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if err := EncodePNG(enc, img); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode base64: %w", err)
	}
	return sb.String(), nil
}

// EncodePNGDataURL encodes an image as a "data:image/png;base64," URL.
func EncodePNGDataURL(img image.Image) (string, error) {
	payload, err := EncodePNGToBase64(img)
	if err != nil {
		return "", err
	}
	return "data:" + pngMediaType + ";base64," + payload, nil
}

// DownloadURL rewrites the media type of an image data URL to
// application/octet-stream so a browser saves it rather than displaying it.
// Inputs that are not image data URLs are returned unchanged.
func DownloadURL(dataURL string) string {
	mediaType, rest, ok := splitDataURL(dataURL)
	if !ok || !strings.HasPrefix(strings.ToLower(mediaType), "image/") {
		return dataURL
	}
	return "data:" + downloadMediaType + rest
}

// splitDataURL splits "data:<media type><params>,<payload>" after the media
// type. rest starts at the first ';' or ',' following it.
func splitDataURL(s string) (mediaType, rest string, ok bool) {
	const scheme = "data:"
	if len(s) < len(scheme) || !strings.EqualFold(s[:len(scheme)], scheme) {
		return "", "", false
	}
	body := s[len(scheme):]
	idx := strings.IndexAny(body, ";,")
	if idx == -1 {
		return "", "", false
	}
	return body[:idx], body[idx:], true
}

func decodeBase64Payload(input string) ([]byte, error) {
	raw := strings.TrimSpace(stripDataPrefix(input))
	if raw == "" {
		return nil, ErrEmptyData
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}

// stripDataPrefix returns the payload of a data URL, or input itself when it
// is not one.
func stripDataPrefix(input string) string {
	if _, rest, ok := splitDataURL(input); ok {
		if idx := strings.IndexByte(rest, ','); idx != -1 {
			return rest[idx+1:]
		}
	}
	return input
}

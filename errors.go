package meme

import "errors"

var (
	// ErrDecode is wrapped by errors returned when a selected file cannot be
	// decoded as an image.
	ErrDecode = errors.New("meme: decode image")

	// ErrEmptyData is returned when a file or payload carries no bytes.
	ErrEmptyData = errors.New("meme: empty image data")
)

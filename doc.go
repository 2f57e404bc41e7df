// Package meme composes classic top/bottom caption memes.
//
// A Composer owns a drawing surface, two caption fields and a file selection.
// Selecting a file or editing a caption re-renders the surface asynchronously:
// the image is decoded, the surface is resized to the image's natural size and
// both captions are drawn uppercased in white with a black outline. Export
// returns the surface as a PNG data URL relabeled as application/octet-stream
// so that it downloads instead of opening inline. The package works entirely in
// memory.
package meme

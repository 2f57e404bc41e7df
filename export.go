package meme

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Download is the target of the download control.
type Download struct {
	// Href is a data URL with media type application/octet-stream.
	Href string
	// Filename is the suggested name for the saved file.
	Filename string
}

// Export validates the form, updates the field markers and, if the form is
// valid, sets the download target to the current surface encoded as PNG.
// Validation failures are reported through the returned Validation and leave
// the download target unchanged; the error is only set if encoding fails.
//
// The surface is exported as-is: exporting before a render has completed
// yields the blank initial surface.
func (c *Composer) Export() (Download, Validation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := validate(c.file != nil, c.bottom)
	c.marks.apply(v)
	if v != ValidationOK {
		c.logger().Debug("meme: download rejected", "reason", v.String())
		return Download{}, v, nil
	}

	href, err := EncodePNGDataURL(c.surface.pix)
	if err != nil {
		return Download{}, v, fmt.Errorf("encode surface: %w", err)
	}

	c.download = Download{
		Href:     DownloadURL(href),
		Filename: downloadName(c.file.Name),
	}
	return c.download, v, nil
}

// Download returns the current download target. Href is empty until a
// successful Export.
func (c *Composer) Download() Download {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.download
}

func downloadName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "meme.png"
	}
	return base + "_meme.png"
}

package meme

// Validation is the outcome of checking the form before a download.
type Validation int

const (
	ValidationOK Validation = iota
	// ValidationMissingImage means no file is selected.
	ValidationMissingImage
	// ValidationEmptyCaption means the bottom caption is empty.
	ValidationEmptyCaption
)

func (v Validation) String() string {
	switch v {
	case ValidationOK:
		return "ok"
	case ValidationMissingImage:
		return "missing image"
	case ValidationEmptyCaption:
		return "empty bottom caption"
	default:
		return "unknown"
	}
}

// FieldErrors holds the error markers shown next to the form fields.
type FieldErrors struct {
	Image      bool
	BottomText bool
}

// apply updates the markers the way a download attempt does: a missing image
// only marks the image field, an empty caption clears the image marker and
// marks the caption, success clears both.
func (f *FieldErrors) apply(v Validation) {
	switch v {
	case ValidationMissingImage:
		f.Image = true
	case ValidationEmptyCaption:
		f.Image = false
		f.BottomText = true
	case ValidationOK:
		f.Image = false
		f.BottomText = false
	}
}

func validate(selected bool, bottom string) Validation {
	if !selected {
		return ValidationMissingImage
	}
	if bottom == "" {
		return ValidationEmptyCaption
	}
	return ValidationOK
}

// Validate checks the form without touching the field markers.
func (c *Composer) Validate() Validation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validate(c.file != nil, c.bottom)
}

// FieldErrors returns the current field error markers.
func (c *Composer) FieldErrors() FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marks
}

package ljdl

import "strings"

// Cursor slices delimited regions out of a text in sequence.
// Each successful TakeBetween moves the position past the end marker,
// so repeated calls pull disjoint regions in document order.
type Cursor struct {
	text string
	pos  int
}

// NewCursor returns a Cursor positioned at the start of text.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// Pos returns the current byte offset into the text.
func (c *Cursor) Pos() int {
	return c.pos
}

// TakeBetween returns the text between the next occurrence of start and
// the first occurrence of end after it, then advances past end.
// If either marker is absent it returns an EMARKER error and the position
// is left unchanged.
func (c *Cursor) TakeBetween(start, end string) (string, error) {
	i := strings.Index(c.text[c.pos:], start)
	if i < 0 {
		return "", Errorf(EMARKER, "start marker %q not found", start)
	}
	first := c.pos + i + len(start)

	j := strings.Index(c.text[first:], end)
	if j < 0 {
		return "", Errorf(EMARKER, "end marker %q not found after %q", end, start)
	}
	last := first + j

	c.pos = last + len(end)
	return c.text[first:last], nil
}

package mock

import "github.com/fwojciec/ljdl"

var _ ljdl.Converter = (*Converter)(nil)

// Converter is a mock implementation of ljdl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Package decoder provides the swappable JSON decoder factory behind
// exmodel.NewDecoder.
package decoder

import (
	"encoding/json"
	"io"
)

type IDecoder interface {
	Decode(any) error
}

type Factory func(io.Reader) IDecoder

var decoderFactory Factory

// Initialize the package with the standard library's JSON decoder by default.
func init() {
	decoderFactory = func(w io.Reader) IDecoder {
		return json.NewDecoder(w)
	}
}

// SetDecoder allows you to set a custom decoder factory.
func SetDecoder(factory Factory) {
	decoderFactory = factory
}

// NewDecoder creates a new decoder using the currently set decoder factory.
func NewDecoder(w io.Reader) IDecoder {
	return decoderFactory(w)
}

func Instance() Factory {
	return decoderFactory
}

package exmodel

import (
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/oarkflow/exmodel/decoder"
	"github.com/oarkflow/exmodel/encoder"
	"github.com/oarkflow/exmodel/marshaler"
	"github.com/oarkflow/exmodel/unmarshaler"
)

// SetMarshaler/SetUnmarshaler/SetEncoder/SetDecoder let a caller swap
// the codec behind exmodel's Marshal/Unmarshal/NewEncoder/NewDecoder.
// NewSchema and Process decode []byte/string input with jsonmap, and
// Sprint/ProcessAndUnmarshal use encoding/json, whichever codec is
// installed here. Grounded on the
// teacher's root-level json.go/decoder.go/encoder.go/marshaler.go/
// unmarshaler.go, which exposed the same four setters over the same
// four subpackages.
func SetMarshaler(m marshaler.Marshaler)     { marshaler.SetMarshaler(m) }
func SetUnmarshaler(u unmarshaler.Unmarshaler) { unmarshaler.SetUnmarshaler(u) }
func SetEncoder(f encoder.Factory)           { encoder.SetEncoder(f) }
func SetDecoder(f decoder.Factory)           { decoder.SetDecoder(f) }

// Marshal/Unmarshal delegate to whichever []byte codec is currently
// installed (encoding/json by default).
func Marshal(v any) ([]byte, error)    { return marshaler.Instance()(v) }
func Unmarshal(data []byte, v any) error { return unmarshaler.Instance()(data, v) }

// NewEncoder/NewDecoder delegate to whichever stream codec is currently
// installed.
func NewEncoder(w io.Writer) encoder.IEncoder { return encoder.NewEncoder(w) }
func NewDecoder(r io.Reader) decoder.IDecoder { return decoder.NewDecoder(r) }

// UseGoJSON swaps every codec slot for github.com/goccy/go-json, the
// drop-in faster encoder/decoder the teacher already depended on for
// its own root JSON package. It affects only those four slots, not how
// NewSchema or Process decode their input.
func UseGoJSON() {
	SetMarshaler(gojson.Marshal)
	SetUnmarshaler(gojson.Unmarshal)
	SetEncoder(func(w io.Writer) encoder.IEncoder { return gojson.NewEncoder(w) })
	SetDecoder(func(r io.Reader) decoder.IDecoder { return gojson.NewDecoder(r) })
}

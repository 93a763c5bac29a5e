// Package json wraps goccy/go-json with the encoder settings cinelens uses
package json

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// Marshal is a drop-in replacement for encoding/json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// NewEncoder returns an encoder that leaves HTML characters unescaped, so
// titles like "Tom & Jerry" stay readable. A non-empty indent pretty-prints.
func NewEncoder(w io.Writer, indent string) *gojson.Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc
}

// Encode writes v to w followed by a newline
func Encode(w io.Writer, v interface{}, indent string) error {
	return NewEncoder(w, indent).Encode(v)
}

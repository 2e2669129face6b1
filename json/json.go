// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zoobzio/htmlinput"
)

// jsonCodec implements htmlinput.Codec for JSON.
type jsonCodec struct {
	strict bool
}

// New returns a JSON codec that ignores unknown fields.
func New() htmlinput.Codec {
	return &jsonCodec{}
}

// Strict returns a JSON codec that rejects unknown fields and trailing data.
// Use it for policy documents, where a misspelt key should not silently
// fall back to stripping everything.
func Strict() htmlinput.Codec {
	return &jsonCodec{strict: true}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON without escaping <, > and &, so markup in
// sanitized fields stays readable.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if !c.strict {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

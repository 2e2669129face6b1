// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/zoobzio/htmlinput"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements htmlinput.Codec for YAML.
type yamlCodec struct {
	strict bool
}

// New returns a YAML codec that ignores unknown fields.
func New() htmlinput.Codec {
	return &yamlCodec{}
}

// Strict returns a YAML codec that rejects unknown fields.
func Strict() htmlinput.Codec {
	return &yamlCodec{strict: true}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal decodes YAML data into v. An empty document leaves v untouched.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(c.strict)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

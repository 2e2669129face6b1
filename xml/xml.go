// Package xml provides an XML codec implementation.
//
// XML carries no map type, so Policy.AllowedAttributes does not survive an
// XML round trip; use another codec for policy documents with attributes.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/htmlinput"
)

// xmlCodec implements htmlinput.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() htmlinput.Codec {
	return xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML. Markup held in string fields is escaped as
// character data.
func (xmlCodec) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

// Unmarshal decodes XML data into v.
func (xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

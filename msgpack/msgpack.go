// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/htmlinput"
)

// msgpackCodec implements htmlinput.Codec for MessagePack.
type msgpackCodec struct {
	strict bool
}

// New returns a MessagePack codec that ignores unknown fields.
func New() htmlinput.Codec {
	return &msgpackCodec{}
}

// Strict returns a MessagePack codec that rejects unknown fields.
func Strict() htmlinput.Codec {
	return &msgpackCodec{strict: true}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields(c.strict)
	return dec.Decode(v)
}

// Package bson provides a BSON codec implementation for documents stored in
// MongoDB.
package bson

import (
	"github.com/zoobzio/htmlinput"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements htmlinput.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() htmlinput.Codec {
	return bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document. v must be a struct, map or document
// pointer; BSON has no top-level scalars.
func (bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes a BSON document into v.
func (bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

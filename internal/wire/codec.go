// Package wire defines the gRPC contract of sessionkeeper.v1.SessionService:
// request and response messages, method names, a client stub and the JSON
// codec the messages travel in.
package wire

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the content-subtype both sides must select
// (application/grpc+json).
const CodecName = "json"

// jsonCodec encodes the plain wire structs with encoding/json. Generated
// protobuf messages (the standard health service) go through protojson so
// they can share the content-subtype.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// Package rpc is the wire contract of the subscription service: message
// types, the gRPC service descriptor, a client stub and the mapping between
// domain errors and gRPC status.
//
// Messages are plain Go structs carried by a CBOR codec registered with
// grpc-go under the "cbor" content subtype. Servers pick the codec from the
// request's content type; the client stub sets it on every call.
package rpc

import (
	"github.com/airvent/subscription/internal/codec"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype of the service.
const CodecName = "cbor"

type cborCodec struct{}

func (cborCodec) Marshal(v any) ([]byte, error) {
	return codec.Marshal(v)
}

func (cborCodec) Unmarshal(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}

func (cborCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(cborCodec{})
}

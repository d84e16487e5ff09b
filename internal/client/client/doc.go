// Package client is the transport the airvent CLI uses to reach the
// subscription service.
//
// The Client interface mirrors the service one call per operation. Proofs
// are opaque strings here; minting them is the caller's job (see the
// identity package). GRPCClient implements Client over the CBOR gRPC
// service in package rpc, applies a per-call deadline and collapses
// transport failures into ErrUnavailable. Domain failures come back as
// *rpc.Error values that match the sentinels in package common with
// errors.Is.
package client

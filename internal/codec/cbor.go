// Package codec provides the service's single CBOR configuration.
//
// CBOR is used in two places: the gRPC wire codec (see internal/rpc) and the
// canonical encoding of operation intents that identity proofs commit to.
// The latter must be byte-for-byte reproducible on client and server, so the
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items.
package codec

import (
	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Reject duplicate map keys: two encodings of one request must not
		// decode to different values.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Unknown fields are ignored.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Diagnose returns RFC 8949 diagnostic notation for data. Handy in logs and
// test failures.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

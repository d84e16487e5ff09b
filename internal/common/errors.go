// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("subscription not found")
	ErrorAlreadyExists = errors.New("subscription already exists")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// State machine errors. Each one is terminal for the call that produced it
	// and leaves the record untouched.
	ErrAlreadyPremium        = errors.New("account is already a premium hardware node")
	ErrNotPremium            = errors.New("account is not premium")
	ErrUnauthorized          = errors.New("unauthorized signer")
	ErrInvalidPointsAmount   = errors.New("invalid points amount (1-1000)")
	ErrPointsOverflow        = errors.New("points overflow")
	ErrInvalidHardwareSerial = errors.New("invalid hardware serial (1-64 bytes)")

	// Identity proof errors.
	ErrInvalidProof  = errors.New("invalid identity proof")
	ErrProofReplayed = errors.New("identity proof already used")

	// Address derivation errors.
	ErrAddressMismatch = errors.New("derived address mismatch")
)

// reasons maps every caller-visible error to the stable code carried on the
// wire. The codes never change once published.
var reasons = []struct {
	err    error
	reason string
}{
	{ErrAlreadyPremium, "AlreadyPremium"},
	{ErrNotPremium, "NotPremium"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrInvalidPointsAmount, "InvalidPointsAmount"},
	{ErrPointsOverflow, "PointsOverflow"},
	{ErrInvalidHardwareSerial, "InvalidHardwareSerial"},
	{ErrorNotFound, "NotFound"},
	{ErrorAlreadyExists, "AlreadyExists"},
	{ErrInvalidProof, "InvalidProof"},
	{ErrProofReplayed, "ProofReplayed"},
	{ErrAddressMismatch, "AddressMismatch"},
}

// Reason returns the stable code for err, or "" if err is not one of the
// sentinels above.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ""
}

// FromReason is the inverse of Reason. Unknown codes return nil.
func FromReason(reason string) error {
	for _, r := range reasons {
		if r.reason == reason {
			return r.err
		}
	}
	return nil
}

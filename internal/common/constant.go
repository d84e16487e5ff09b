// Package common contains shared constants and sentinel errors used across
// the AirVent subscription server and client.
package common

// ProofAudience is the audience every identity proof must be issued for.
// A proof minted for another service cannot be replayed here.
const ProofAudience = "airvent-subscription"

// ErrorDomain tags gRPC error details produced by this service.
const ErrorDomain = "subscription.airvent.io"

// Package config loads runtime configuration for the airvent CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c or -config.
//  3. Command-line flags bound by the cli package, which override earlier
//     values when set.
//
// # JSON schema
//
// Durations accept strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "key_file": "airvent-key.json",
//	  "request_timeout": "10s",
//	  "proof_validity_duration": "2m"
//	}
package config

package config

import "time"

// Config holds runtime settings for the airvent CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the subscription gRPC endpoint.
//   - KeyFile: path of the passphrase-protected signing key.
//   - RequestTimeout: deadline for a single RPC.
//   - ProofValidityDuration: lifetime of proofs this client signs.
type Config struct {
	ServerEndpointAddr    string
	KeyFile               string
	RequestTimeout        time.Duration
	ProofValidityDuration time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.KeyFile = "airvent-key.json"
	c.RequestTimeout = 10 * time.Second
	c.ProofValidityDuration = 2 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	return cfg
}

package config

import (
	"encoding/json"
	"os"

	"github.com/airvent/subscription/internal/flagx"
	"github.com/airvent/subscription/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept either a
// string such as "5m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn"`
	MetricsEndpointAddr   *string        `json:"metrics_endpoint_addr"`
	ProofValidityDuration timex.Duration `json:"proof_validity_duration"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Keys missing from the file keep their current value; metrics_endpoint_addr
// may be set to "" explicitly to disable metrics. An unreadable or invalid
// file panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.MetricsEndpointAddr != nil {
		config.MetricsEndpointAddr = *c.MetricsEndpointAddr
	}
	if c.ProofValidityDuration.Duration > 0 {
		config.ProofValidityDuration = c.ProofValidityDuration.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}

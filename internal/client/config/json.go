package config

import (
	"encoding/json"
	"os"

	"github.com/airvent/subscription/internal/flagx"
	"github.com/airvent/subscription/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr    string         `json:"server_endpoint_addr"`
	KeyFile               string         `json:"key_file"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	ProofValidityDuration timex.Duration `json:"proof_validity_duration"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Keys
// absent from the file leave cfg unchanged. Panics on read or unmarshal
// errors.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.KeyFile != "" {
		cfg.KeyFile = jc.KeyFile
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ProofValidityDuration.Duration > 0 {
		cfg.ProofValidityDuration = jc.ProofValidityDuration.Duration
	}
}

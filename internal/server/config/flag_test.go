package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-m", ":9100", "-t", "2", "-l", "debug",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC:      "127.0.0.1:9090",
				DatabaseDSN:           "db",
				MetricsEndpointAddr:   ":9100",
				ProofValidityDuration: 2 * time.Minute,
				LogLevel:              "debug",
			}},
		{name: "config flag is ignored", args: []string{"cmd",
			"-config", "x.json", "-a", ":1",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC: ":1",
			}},
		{name: "non-numeric minutes", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

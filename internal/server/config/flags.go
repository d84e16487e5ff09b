package config

import (
	"flag"
	"os"
	"time"

	"github.com/airvent/subscription/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-m string   metrics bind address (empty disables)
//	-t int      proof validity, minutes
//	-l string   log level
//
// os.Args is first filtered to the flags handled here with flagx.FilterArgs
// so that -c/-config does not trip the FlagSet.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MetricsEndpointAddr, "m", config.MetricsEndpointAddr, "address and port for /metrics")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	proofValidityDuration := fs.Int("t", int(config.ProofValidityDuration.Minutes()), "proof_validity_duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ProofValidityDuration = time.Duration(*proofValidityDuration) * time.Minute
}

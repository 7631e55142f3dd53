package config

import (
	"flag"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Args are
// filtered with flagx.FilterArgs so -c and -env do not trip the parser.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-transport", "-db", "-timeout"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the gRPC endpoint")
	fs.StringVar(&cfg.HTTPBaseURL, "u", cfg.HTTPBaseURL, "base URL of the HTTP API")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport: grpc or http")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path of the local session database")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

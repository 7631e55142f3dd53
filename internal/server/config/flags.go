package config

import (
	"flag"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-l", "-backend", "-d", "-redis", "-s", "-t", "-b", "-e", "-r"}

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g., ":8080")
//	-g string        gRPC bind address (e.g., ":50051")
//	-l string        log level (debug, info, warn, error)
//	-backend string  storage backend: memory, postgres, redis, s3
//	-d string        PostgreSQL DSN
//	-redis string    Redis address
//	-s string        identity token HMAC secret
//	-t duration      identity token lifetime (e.g., "60s")
//	-b string        S3 bucket
//	-e string        S3 base endpoint
//	-r string        S3 region
//
// Args are first narrowed with flagx.FilterArgs so flags owned by other
// loaders (-c, -env) do not trip the parser.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.StorageBackend, "backend", config.StorageBackend, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.IdentityTokenTTL, "t", config.IdentityTokenTTL, "identity token lifetime")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

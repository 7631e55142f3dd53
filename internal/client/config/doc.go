// Package config loads runtime configuration for the sessionkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: SESSIONKEEPER_CLI_* variables, seeded from the dotenv file
//     named by -env or from ./.env when present.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string          address:port of the gRPC endpoint
//	-u string          base URL of the HTTP API
//	-transport string  "grpc" or "http"
//	-db string         path of the local session database
//	-timeout duration  per-request timeout (e.g. "10s")
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "http_base_url": "http://127.0.0.1:8080",
//	  "transport": "grpc",
//	  "database_path": "session.db",
//	  "request_timeout": "10s"
//	}
package config

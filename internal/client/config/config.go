package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

const (
	TransportGRPC = "grpc"
	TransportHTTP = "http"
)

// Config holds runtime settings for the sessionkeeper CLI.
type Config struct {
	ServerEndpointAddr string
	HTTPBaseURL        string
	Transport          string
	DatabasePath       string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.HTTPBaseURL = "http://127.0.0.1:8080"
	c.Transport = TransportGRPC
	c.DatabasePath = "session.db"
	c.RequestTimeout = 10 * time.Second
}

func (c *Config) Validate() error {
	if c.Transport != TransportGRPC && c.Transport != TransportHTTP {
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig constructs a Config from defaults, environment, JSON and flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	jsonPath, envPath := flagx.SourceFiles(args)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, envPath)
	parseJson(cfg, jsonPath)
	parseFlags(cfg, args)
	return cfg
}

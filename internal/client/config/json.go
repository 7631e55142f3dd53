package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept strings like "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	HTTPBaseURL        string         `json:"http_base_url"`
	Transport          string         `json:"transport"`
	DatabasePath       string         `json:"database_path"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the fields present in the JSON file at path.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, path string) {
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.HTTPBaseURL != "" {
		cfg.HTTPBaseURL = jc.HTTPBaseURL
	}
	if jc.Transport != "" {
		cfg.Transport = jc.Transport
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// "60s" style strings or integer nanoseconds. Absent fields leave the
// current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC  string         `json:"endpoint_addr_grpc"`
	LogLevel          string         `json:"log_level"`
	StorageBackend    string         `json:"storage_backend"`
	DatabaseDSN       string         `json:"database_dsn"`
	RedisAddr         string         `json:"redis_addr"`
	RedisPassword     string         `json:"redis_password"`
	RedisDB           *int           `json:"redis_db"`
	RedisPrefix       string         `json:"redis_prefix"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3Prefix          string         `json:"s3_prefix"`
	S3UsePathStyle    *bool          `json:"s3_use_path_style"`
	SecretKey         string         `json:"secret_key"`
	IdentityTokenTTL  timex.Duration `json:"identity_token_ttl"`
	Argon2Memory      uint32         `json:"argon2_memory"`
	Argon2Time        uint32         `json:"argon2_time"`
	Argon2Parallelism uint8          `json:"argon2_parallelism"`
}

// parseJson overlays the JSON file at path onto config. An empty path loads
// nothing; an unreadable or invalid file panics.
func parseJson(config *Config, path string) {
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	setString(&config.RedisPrefix, c.RedisPrefix)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)
	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.IdentityTokenTTL.Duration != 0 {
		config.IdentityTokenTTL = c.IdentityTokenTTL.Duration
	}
	if c.Argon2Memory != 0 {
		config.Argon2.Memory = c.Argon2Memory
	}
	if c.Argon2Time != 0 {
		config.Argon2.Time = c.Argon2Time
	}
	if c.Argon2Parallelism != 0 {
		config.Argon2.Parallelism = c.Argon2Parallelism
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

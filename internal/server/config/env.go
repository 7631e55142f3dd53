package config

import (
	"github.com/dmitrijs2005/sessionkeeper/internal/envx"
)

const envPrefix = "SESSIONKEEPER_"

// parseEnv overlays SESSIONKEEPER_* environment variables. When envPath is
// set that file must exist; otherwise a .env in the working directory is
// loaded if present. Variables already in the environment win over the file.
func parseEnv(config *Config, envPath string) {
	if err := envx.Load(envPath); err != nil {
		panic(err)
	}

	err := envx.LookupAll(envPrefix,
		envx.Var{Name: "HTTP_ADDR", Dst: &config.EndpointAddrHTTP},
		envx.Var{Name: "GRPC_ADDR", Dst: &config.EndpointAddrGRPC},
		envx.Var{Name: "LOG_LEVEL", Dst: &config.LogLevel},
		envx.Var{Name: "STORAGE_BACKEND", Dst: &config.StorageBackend},
		envx.Var{Name: "DATABASE_DSN", Dst: &config.DatabaseDSN},
		envx.Var{Name: "REDIS_ADDR", Dst: &config.RedisAddr},
		envx.Var{Name: "REDIS_PASSWORD", Dst: &config.RedisPassword},
		envx.Var{Name: "REDIS_DB", Dst: &config.RedisDB},
		envx.Var{Name: "REDIS_PREFIX", Dst: &config.RedisPrefix},
		envx.Var{Name: "S3_ACCESS_KEY", Dst: &config.S3AccessKey},
		envx.Var{Name: "S3_SECRET_KEY", Dst: &config.S3SecretKey},
		envx.Var{Name: "S3_BUCKET", Dst: &config.S3Bucket},
		envx.Var{Name: "S3_REGION", Dst: &config.S3Region},
		envx.Var{Name: "S3_BASE_ENDPOINT", Dst: &config.S3BaseEndpoint},
		envx.Var{Name: "S3_PREFIX", Dst: &config.S3Prefix},
		envx.Var{Name: "S3_USE_PATH_STYLE", Dst: &config.S3UsePathStyle},
		envx.Var{Name: "SECRET_KEY", Dst: &config.SecretKey},
		envx.Var{Name: "IDENTITY_TOKEN_TTL", Dst: &config.IdentityTokenTTL},
	)
	if err != nil {
		panic(err)
	}
}

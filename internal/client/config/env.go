package config

import "github.com/dmitrijs2005/sessionkeeper/internal/envx"

const envPrefix = "SESSIONKEEPER_CLI_"

func parseEnv(cfg *Config, envPath string) {
	if err := envx.Load(envPath); err != nil {
		panic(err)
	}

	err := envx.LookupAll(envPrefix,
		envx.Var{Name: "SERVER_ENDPOINT_ADDR", Dst: &cfg.ServerEndpointAddr},
		envx.Var{Name: "HTTP_BASE_URL", Dst: &cfg.HTTPBaseURL},
		envx.Var{Name: "TRANSPORT", Dst: &cfg.Transport},
		envx.Var{Name: "DATABASE_PATH", Dst: &cfg.DatabasePath},
		envx.Var{Name: "REQUEST_TIMEOUT", Dst: &cfg.RequestTimeout},
	)
	if err != nil {
		panic(err)
	}
}

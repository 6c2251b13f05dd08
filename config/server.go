package config

import (
	"fmt"
)

type ServerConfig struct {
	Port       int
	CorsOrigin string
	JwksUrl    string
}

func GetServerConfig() (*ServerConfig, error) {
	port, err := getIntEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	return &ServerConfig{
		Port:       port,
		CorsOrigin: getEnvDefault("CORS_ORIGIN", "http://localhost:3000"),
		JwksUrl:    getEnvDefault("JWKS_URL", ""),
	}, nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *ServerConfig) AuthEnabled() bool {
	return c.JwksUrl != ""
}

package config

import (
	"time"
)

type ReplicateConfig struct {
	ApiUrl       string
	ApiToken     string
	PollInterval time.Duration
	Timeout      time.Duration
}

func GetReplicateConfig() (*ReplicateConfig, error) {
	pollInterval, err := getDurationEnv("REPLICATE_POLL_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, err
	}
	timeout, err := getDurationEnv("REPLICATE_TIMEOUT", 4*time.Minute)
	if err != nil {
		return nil, err
	}

	return &ReplicateConfig{
		ApiUrl:       getEnvDefault("REPLICATE_API_URL", "https://api.replicate.com"),
		ApiToken:     getEnvDefault("REPLICATE_API_TOKEN", ""),
		PollInterval: pollInterval,
		Timeout:      timeout,
	}, nil
}

func (c *ReplicateConfig) Enabled() bool {
	return c != nil && c.ApiToken != ""
}

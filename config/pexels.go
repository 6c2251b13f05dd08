package config

type PexelsConfig struct {
	ApiUrl  string
	ApiKey  string
	PerPage int
}

func GetPexelsConfig() (*PexelsConfig, error) {
	perPage, err := getIntEnv("PEXELS_PER_PAGE", 5)
	if err != nil {
		return nil, err
	}

	return &PexelsConfig{
		ApiUrl:  getEnvDefault("PEXELS_API_URL", "https://api.pexels.com"),
		ApiKey:  getEnvDefault("PEXELS_API_KEY", ""),
		PerPage: perPage,
	}, nil
}

func (c *PexelsConfig) Enabled() bool {
	return c != nil && c.ApiKey != ""
}

package config

type GptConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
}

// GetGptConfig never fails: without OPENAI_API_KEY the text stages run on
// mock responses.
func GetGptConfig() (*GptConfig, error) {
	return &GptConfig{
		ApiUrl: getEnvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ApiKey: getEnvDefault("OPENAI_API_KEY", ""),
		Model:  getEnvDefault("OPENAI_MODEL", "gpt-4o"),
	}, nil
}

func (c *GptConfig) Enabled() bool {
	return c != nil && c.ApiKey != ""
}

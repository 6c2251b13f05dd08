package config

type LogConfig struct {
	Level  string
	Format string
}

func GetLogConfig() (*LogConfig, error) {
	return &LogConfig{
		Level:  getEnvDefault("LOG_LEVEL", "info"),
		Format: getEnvDefault("LOG_FORMAT", "json"),
	}, nil
}

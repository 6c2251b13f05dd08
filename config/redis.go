package config

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func GetRedisConfig() (*RedisConfig, error) {
	db, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	return &RedisConfig{
		Addr:     getEnvDefault("REDIS_URL", ""),
		Password: getEnvDefault("REDIS_PASSWORD", ""),
		DB:       db,
	}, nil
}

func (c *RedisConfig) Enabled() bool {
	return c != nil && c.Addr != ""
}

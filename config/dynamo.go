package config

type DynamoConfig struct {
	TableName  string
	TtlMinutes int
}

func GetDynamoConfig() (*DynamoConfig, error) {
	ttlMinutes, err := getIntEnv("DYNAMO_TTL_MINUTES", 60*24*30)
	if err != nil {
		return nil, err
	}

	return &DynamoConfig{
		TableName:  getEnvDefault("DYNAMO_TABLE_NAME", ""),
		TtlMinutes: ttlMinutes,
	}, nil
}

func (c *DynamoConfig) Enabled() bool {
	return c != nil && c.TableName != ""
}

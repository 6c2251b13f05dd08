package config

import (
	"errors"
	"io/fs"

	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to every component that talks
// to a remote service or the filesystem.
type Config struct {
	Log        *LogConfig
	Server     *ServerConfig
	Pipeline   *PipelineConfig
	Gpt        *GptConfig
	Replicate  *ReplicateConfig
	Pexels     *PexelsConfig
	ElevenLabs *ElevenLabsConfig
	S3         *S3Config
	Dynamo     *DynamoConfig
	Redis      *RedisConfig
	Styles     []domain.StyleDescriptor
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var (
		cfg Config
		err error
	)

	if cfg.Log, err = GetLogConfig(); err != nil {
		return nil, err
	}
	if cfg.Server, err = GetServerConfig(); err != nil {
		return nil, err
	}
	if cfg.Pipeline, err = GetPipelineConfig(); err != nil {
		return nil, err
	}
	if cfg.Gpt, err = GetGptConfig(); err != nil {
		return nil, err
	}
	if cfg.Replicate, err = GetReplicateConfig(); err != nil {
		return nil, err
	}
	if cfg.Pexels, err = GetPexelsConfig(); err != nil {
		return nil, err
	}
	if cfg.ElevenLabs, err = GetElevenLabsConfig(); err != nil {
		return nil, err
	}
	if cfg.S3, err = GetS3Config(); err != nil {
		return nil, err
	}
	if cfg.Dynamo, err = GetDynamoConfig(); err != nil {
		return nil, err
	}
	if cfg.Redis, err = GetRedisConfig(); err != nil {
		return nil, err
	}
	if cfg.Styles, err = LoadStyles(cfg.Pipeline.StylesFile); err != nil {
		return nil, err
	}

	return &cfg, nil
}

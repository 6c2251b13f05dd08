package config

type ElevenLabsConfig struct {
	ApiUrl          string
	ApiKey          string
	ModelId         string
	VoiceID         string
	Stability       float64
	SimilarityBoost float64
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	stability, err := getFloatEnv("ELEVEN_LABS_STABILITY", 0.5)
	if err != nil {
		return nil, err
	}
	similarityBoost, err := getFloatEnv("ELEVEN_LABS_SIMILARITY_BOOST", 0.75)
	if err != nil {
		return nil, err
	}

	return &ElevenLabsConfig{
		ApiUrl:          getEnvDefault("ELEVEN_LABS_API_URL", "https://api.elevenlabs.io/v1/text-to-speech"),
		ApiKey:          getEnvDefault("ELEVEN_LABS_API_KEY", ""),
		ModelId:         getEnvDefault("ELEVEN_LABS_MODEL_ID", "eleven_multilingual_v2"),
		VoiceID:         getEnvDefault("ELEVEN_LABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		Stability:       stability,
		SimilarityBoost: similarityBoost,
	}, nil
}

func (c *ElevenLabsConfig) Enabled() bool {
	return c != nil && c.ApiKey != ""
}

package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
)

type ElevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsTimestampsResponse struct {
	AudioBase64 string              `json:"audio_base64"`
	Alignment   elevenLabsAlignment `json:"alignment"`
}

type elevenLabsAlignment struct {
	Characters []string  `json:"characters"`
	StartTimes []float64 `json:"character_start_times_seconds"`
	EndTimes   []float64 `json:"character_end_times_seconds"`
}

type elevenLabsSpeechSynthesizer struct {
	ContentFetcher
	logger           outbound.LoggerPort
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewElevenLabsSpeechSynthesizer(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig, logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &elevenLabsSpeechSynthesizer{
		ContentFetcher:   contentFetcher,
		logger:           logger,
		elevenLabsConfig: elevenLabsConfig,
	}
}

func (e *elevenLabsSpeechSynthesizer) Synthesize(ctx context.Context, text string) (*outbound.SpeechResult, error) {
	if !e.elevenLabsConfig.Enabled() {
		return nil, fmt.Errorf("eleven labs: %w", domain.ErrServiceNotConfigured)
	}

	req, err := e.getRequest(ctx, text)
	if err != nil {
		return nil, err
	}

	payload, err := e.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var res elevenLabsTimestampsResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		e.logger.Error(err, "Failed to unmarshal the speech response")
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(res.AudioBase64)
	if err != nil {
		e.logger.Error(err, "Failed to decode the speech audio")
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("eleven labs returned no audio")
	}

	return &outbound.SpeechResult{
		Audio: audio,
		Words: alignmentToWords(res.Alignment),
	}, nil
}

func (e *elevenLabsSpeechSynthesizer) getRequest(ctx context.Context, text string) (*http.Request, error) {
	reqBody := ElevenLabsRequest{
		Text:    text,
		ModelId: e.elevenLabsConfig.ModelId,
		VoiceSettings: VoiceSettings{
			Stability:       e.elevenLabsConfig.Stability,
			SimilarityBoost: e.elevenLabsConfig.SimilarityBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		e.logger.ErrorWithFields(err, "Failed to marshal the request body for ElevenLabs API", map[string]interface{}{
			"text": text,
		})
		return nil, err
	}

	url := strings.TrimRight(e.elevenLabsConfig.ApiUrl, "/") + "/" + e.elevenLabsConfig.VoiceID + "/with-timestamps"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		e.logger.ErrorWithFields(err, "Failed to create the HTTP POST request", map[string]interface{}{
			"URL": url,
		})
		return nil, err
	}

	reqHeaders := map[string]string{
		"Accept":       "application/json",
		"xi-api-key":   e.elevenLabsConfig.ApiKey,
		"Content-Type": "application/json",
	}
	for key, value := range reqHeaders {
		req.Header.Add(key, value)
	}

	return req, nil
}

// alignmentToWords groups character timings into words split on whitespace.
// A word starts when its first character starts and ends when its last
// character ends.
func alignmentToWords(alignment elevenLabsAlignment) []domain.TranscriptionWord {
	n := len(alignment.Characters)
	if len(alignment.StartTimes) < n {
		n = len(alignment.StartTimes)
	}
	if len(alignment.EndTimes) < n {
		n = len(alignment.EndTimes)
	}

	var (
		words   []domain.TranscriptionWord
		current strings.Builder
		start   float64
		end     float64
	)
	flush := func() {
		if current.Len() > 0 {
			words = append(words, domain.TranscriptionWord{
				Word:      current.String(),
				StartTime: start,
				EndTime:   end,
			})
			current.Reset()
		}
	}

	for i := 0; i < n; i++ {
		char := alignment.Characters[i]
		if strings.TrimFunc(char, unicode.IsSpace) == "" {
			flush()
			continue
		}
		if current.Len() == 0 {
			start = alignment.StartTimes[i]
		}
		current.WriteString(char)
		end = alignment.EndTimes[i]
	}
	flush()

	return words
}

package adapters

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type openAITextCompletion struct {
	logger    outbound.LoggerPort
	gptConfig *config.GptConfig
	client    openai.Client
	schemas   sync.Map
}

func NewOpenAITextCompletion(gptConfig *config.GptConfig, logger outbound.LoggerPort) outbound.TextCompletionPort {
	return &openAITextCompletion{
		logger:    logger,
		gptConfig: gptConfig,
		client: openai.NewClient(
			option.WithAPIKey(gptConfig.ApiKey),
			option.WithBaseURL(gptConfig.ApiUrl),
			option.WithMaxRetries(0),
		),
	}
}

// GenerateSchema reflects a strict JSON schema for structured outputs.
func GenerateSchema(v interface{}) interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}

func (o *openAITextCompletion) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	if !o.gptConfig.Enabled() {
		return "", fmt.Errorf("openai: %w", domain.ErrServiceNotConfigured)
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model: openai.ChatModel(o.gptConfig.Model),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.ReplyShape != nil {
		name := req.ReplyName
		if name == "" {
			name = "structured_response"
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        name,
					Description: openai.String("Structured data response"),
					Schema:      o.schemaFor(req.ReplyShape),
					Strict:      openai.Bool(true),
				},
			},
		}
	}

	chatCompletion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.ErrorWithFields(err, "OpenAI chat completion failed", map[string]interface{}{
			"model": o.gptConfig.Model,
			"reply": req.ReplyName,
		})
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return chatCompletion.Choices[0].Message.Content, nil
}

func (o *openAITextCompletion) schemaFor(shape interface{}) interface{} {
	key := reflect.TypeOf(shape)
	if cached, ok := o.schemas.Load(key); ok {
		return cached
	}
	schema := GenerateSchema(shape)
	o.schemas.Store(key, schema)
	return schema
}

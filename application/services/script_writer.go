package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/google/uuid"
)

const (
	scriptFileName  = "script.txt"
	titleMaxTokens  = 60
	titleFirstWords = 6
	maxSlugLength   = 48
	titlePrompt     = "Give a short, catchy title for the video narrated by this script. Script: "
)

type titleReply struct {
	Title string `json:"title" jsonschema_description:"A short title of at most eight words."`
}

type scriptWriter struct {
	logger         outbound.LoggerPort
	streamer       outbound.ScriptStreamerPort
	completion     outbound.TextCompletionPort
	pipelineConfig *config.PipelineConfig
}

func NewScriptWriter(logger outbound.LoggerPort, streamer outbound.ScriptStreamerPort, completion outbound.TextCompletionPort,
	pipelineConfig *config.PipelineConfig) inbound.ScriptWriterPort {
	return &scriptWriter{
		logger:         logger,
		streamer:       streamer,
		completion:     completion,
		pipelineConfig: pipelineConfig,
	}
}

func (w *scriptWriter) Write(ctx context.Context, inputText string) (*inbound.WrittenScript, error) {
	inputText = strings.TrimSpace(inputText)
	if inputText == "" {
		return nil, domain.ErrEmptyInput
	}

	script, err := w.collect(ctx, inputText)
	if err != nil {
		return nil, err
	}

	title := w.title(ctx, script)
	movieDir := filepath.Join(w.pipelineConfig.FilesDir, fmt.Sprintf("%s-%s", slugify(title), uuid.NewString()[:8]))
	if err := os.MkdirAll(movieDir, 0o755); err != nil {
		w.logger.ErrorWithFields(err, "Failed to create the movie dir", map[string]interface{}{
			"movieDir": movieDir,
		})
		return nil, err
	}

	scriptPath := filepath.Join(movieDir, scriptFileName)
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		w.logger.ErrorWithFields(err, "Failed to write the script", map[string]interface{}{
			"scriptPath": scriptPath,
		})
		return nil, err
	}

	w.logger.InfoWithFields("Script written", map[string]interface{}{
		"scriptPath": scriptPath,
		"title":      title,
	})
	return &inbound.WrittenScript{
		ScriptPath: scriptPath,
		MovieDir:   movieDir,
		Title:      title,
	}, nil
}

func (w *scriptWriter) collect(ctx context.Context, inputText string) (string, error) {
	tokens, errCh := w.streamer.Stream(ctx, outbound.StreamScriptRequest{
		Input: inputText,
		Words: w.pipelineConfig.ScriptWords,
	})

	var sb strings.Builder
	for token := range tokens {
		sb.WriteString(token)
	}
	if err, ok := <-errCh; ok && err != nil {
		return "", err
	}

	script := strings.TrimSpace(sb.String())
	if script == "" {
		return "", fmt.Errorf("script stream produced no text: %w", domain.ErrEmptyInput)
	}
	return script, nil
}

func (w *scriptWriter) title(ctx context.Context, script string) string {
	if w.completion != nil {
		reply, err := w.completion.Complete(ctx, outbound.CompletionRequest{
			Prompt:     titlePrompt + script,
			MaxTokens:  titleMaxTokens,
			ReplyName:  "video_title",
			ReplyShape: titleReply{},
		})
		if err == nil {
			if title := parseTitle(reply); title != "" {
				return title
			}
		} else {
			w.logger.WarnWithFields("Title generation failed, using the opening words", map[string]interface{}{
				"reason": err.Error(),
			})
		}
	}
	return firstWords(script, titleFirstWords)
}

func parseTitle(reply string) string {
	var parsed titleReply
	if err := decodeJSONReply(reply, &parsed); err == nil {
		return strings.TrimSpace(parsed.Title)
	}
	return strings.Trim(strings.TrimSpace(reply), `"`)
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func slugify(title string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}

	slug := []rune(strings.Trim(sb.String(), "-"))
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	if len(slug) == 0 {
		return "script"
	}
	return strings.TrimRight(string(slug), "-")
}

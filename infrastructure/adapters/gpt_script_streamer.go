package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
	"github.com/donovanhide/eventsource"
)

const DoneSignal = "[DONE]"

type chatGptRequest struct {
	Stream   bool             `json:"stream"`
	Model    string           `json:"model"`
	Messages []chatGptMessage `json:"messages"`
}

type chatGptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatGptChunkBody struct {
	Choices []chatGptResponseChoice `json:"choices"`
}

type chatGptResponseChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type gptScriptStreamer struct {
	logger     outbound.LoggerPort
	gptConfig  *config.GptConfig
	workerPool outbound.TaskDispatcher
}

func NewGptScriptStreamer(gptConfig *config.GptConfig, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort) outbound.ScriptStreamerPort {
	return &gptScriptStreamer{
		logger:     logger,
		gptConfig:  gptConfig,
		workerPool: workerPool,
	}
}

// Stream emits script tokens as they arrive. The stream is read once; a
// broken connection ends it with an error instead of reconnecting.
func (s *gptScriptStreamer) Stream(ctx context.Context, req outbound.StreamScriptRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	if !s.gptConfig.Enabled() {
		errCh <- fmt.Errorf("script streamer: %w", domain.ErrServiceNotConfigured)
		close(out)
		close(errCh)
		return out, errCh
	}

	newCtx, cancel := context.WithCancel(ctx)

	err := s.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)
		defer cancel()

		httpReq, err := s.createRequest(newCtx, req)
		if err != nil {
			errCh <- err
			return
		}

		stream, err := eventsource.SubscribeWithRequest("", httpReq)
		if err != nil {
			s.logger.Error(err, "Failed to subscribe to script stream")
			errCh <- err
			return
		}
		readerDone := false
		defer func() {
			closeStream(cancel, stream, readerDone)
		}()

		for {
			select {
			case <-newCtx.Done():
				errCh <- newCtx.Err()
				return
			case ev, ok := <-stream.Events:
				if !ok {
					return
				}
				if strings.TrimSpace(ev.Data()) == DoneSignal {
					return
				}
				payload, err := s.extractPayload(ev)
				if err != nil {
					errCh <- err
					return
				}
				select {
				case out <- payload:
				case <-newCtx.Done():
					errCh <- newCtx.Err()
					return
				}
			case err := <-stream.Errors:
				readerDone = true
				if ctxErr := newCtx.Err(); ctxErr != nil {
					errCh <- ctxErr
					return
				}
				if err == io.EOF {
					s.logger.Info("Script stream closed")
					return
				}
				s.logger.Error(err, "Error occurred during script streaming")
				errCh <- err
				return
			}
		}
	})
	if err != nil {
		cancel()
		s.logger.Error(err, "Failed to submit task to worker pool")
		errCh <- err
		close(out)
		close(errCh)
	}

	return out, errCh
}

// closeStream releases the subscription. Stream.Close closes the channels the
// library's reader goroutine sends on, so it is only called once that reader
// has reported its terminal error and sleeps before reconnecting.
func closeStream(cancel context.CancelFunc, stream *eventsource.Stream, readerDone bool) {
	cancel()
	for !readerDone {
		select {
		case <-stream.Events:
		case <-stream.Errors:
			readerDone = true
		}
	}
	stream.Close()
}

func (s *gptScriptStreamer) extractPayload(event eventsource.Event) (string, error) {
	var chunkBody chatGptChunkBody
	err := json.Unmarshal([]byte(event.Data()), &chunkBody)
	if err != nil {
		s.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}

	return chunkBody.Choices[0].Delta.Content, nil
}

func (s *gptScriptStreamer) createRequest(ctx context.Context, req outbound.StreamScriptRequest) (*http.Request, error) {
	promptMessage := chatGptMessage{
		Role: "system",
		Content: fmt.Sprintf("Write a narrated script for a short video on the topic: %s.\n"+
			"The script is read aloud by a single narrator over changing footage.\n"+
			"- Write plain sentences only, no headings, scene directions or speaker names.\n"+
			"- Each sentence should describe something that can be shown on screen.\n"+
			"The script should be of about %d words.", req.Input, req.Words),
	}

	promptReq := chatGptRequest{
		Stream:   true,
		Model:    s.gptConfig.Model,
		Messages: []chatGptMessage{promptMessage},
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		s.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	url := strings.TrimRight(s.gptConfig.ApiUrl, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		s.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.gptConfig.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}

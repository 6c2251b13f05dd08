package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
)

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
	outbound.MediaDownloaderPort
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(client *http.Client, logger outbound.LoggerPort) ContentFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &contentFetcher{
		logger: logger,
		client: client,
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(req, res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	return payload, nil
}

// Download streams the body of url into destPath. A partially written file is
// removed on failure.
func (c *contentFetcher) Download(ctx context.Context, url string, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to create the download request", map[string]interface{}{
			"URL": url,
		})
		return err
	}

	res, err := c.do(req)
	if err != nil {
		return err
	}
	defer c.closeBody(req, res.Body)

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	file, err := os.Create(destPath)
	if err != nil {
		return err
	}

	_, err = io.Copy(file, res.Body)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to write the downloaded file", map[string]interface{}{
			"URL":  url,
			"path": destPath,
		})
		_ = os.Remove(destPath)
		return err
	}

	return nil
}

func (c *contentFetcher) do(req *http.Request) (*http.Response, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		bodyPayload, _ := io.ReadAll(res.Body)
		c.closeBody(req, res.Body)
		c.logger.ErrorWithFields(nil, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": string(bodyPayload),
		})
		return nil, fmt.Errorf("HTTP request returned non-OK status code: %d", res.StatusCode)
	}

	return res, nil
}

func (c *contentFetcher) closeBody(req *http.Request, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
	}
}

package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/outbound"
	"github.com/Cyr-Ch/filmmaker/config"
	"github.com/Cyr-Ch/filmmaker/domain"
)

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

type pexelsVideo struct {
	ID         int               `json:"id"`
	Duration   int               `json:"duration"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsVideoFile struct {
	Link     string `json:"link"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Quality  string `json:"quality"`
	FileType string `json:"file_type"`
}

type pexelsStockSearch struct {
	ContentFetcher
	logger       outbound.LoggerPort
	pexelsConfig *config.PexelsConfig
}

func NewPexelsStockSearch(contentFetcher ContentFetcher, pexelsConfig *config.PexelsConfig, logger outbound.LoggerPort) outbound.StockVideoSearchPort {
	return &pexelsStockSearch{
		ContentFetcher: contentFetcher,
		logger:         logger,
		pexelsConfig:   pexelsConfig,
	}
}

func (p *pexelsStockSearch) Search(ctx context.Context, query string) ([]outbound.StockClip, error) {
	if !p.pexelsConfig.Enabled() {
		return nil, fmt.Errorf("pexels: %w", domain.ErrServiceNotConfigured)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(p.pexelsConfig.PerPage))
	params.Set("orientation", "landscape")
	searchURL := strings.TrimRight(p.pexelsConfig.ApiUrl, "/") + "/videos/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to create the stock search request", map[string]interface{}{
			"query": query,
		})
		return nil, err
	}
	req.Header.Set("Authorization", p.pexelsConfig.ApiKey)

	payload, err := p.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var res pexelsSearchResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		p.logger.Error(err, "Failed to unmarshal the stock search response")
		return nil, err
	}

	var clips []outbound.StockClip
	for _, video := range res.Videos {
		for _, file := range video.VideoFiles {
			if file.Link == "" {
				continue
			}
			clips = append(clips, outbound.StockClip{
				URL:      file.Link,
				Width:    file.Width,
				Height:   file.Height,
				Quality:  file.Quality,
				FileType: file.FileType,
				Duration: video.Duration,
			})
		}
	}

	p.logger.DebugWithFields("Stock search finished", map[string]interface{}{
		"query":  query,
		"videos": len(res.Videos),
		"files":  len(clips),
	})

	return clips, nil
}

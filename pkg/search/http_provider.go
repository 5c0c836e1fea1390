package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProvider queries a hosted search index over its REST API. The service
// performs the hybrid (keyword + vector) ranking; we only ask for the title
// and chunk fields.
type HTTPProvider struct {
	endpoint  string
	key       string
	indexName string
	client    *http.Client
}

var _ Provider = &HTTPProvider{}

func NewHTTPProvider(endpoint, key, indexName string) *HTTPProvider {
	return &HTTPProvider{
		endpoint:  endpoint,
		key:       key,
		indexName: indexName,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchRequest struct {
	Search string `json:"search"`
	Top    int    `json:"top"`
	Select string `json:"select"`
}

type searchResponse struct {
	Value []struct {
		Title string  `json:"title"`
		Chunk string  `json:"chunk"`
		Score float32 `json:"@search.score"`
	} `json:"value"`
}

func (p *HTTPProvider) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = 5
	}

	payload, err := json.Marshal(searchRequest{
		Search: query,
		Top:    topK,
		Select: "title,chunk",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=2024-07-01", p.endpoint, p.indexName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.key)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed searchResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	passages := make([]Passage, 0, len(parsed.Value))
	for _, v := range parsed.Value {
		title := v.Title
		if title == "" {
			title = "Untitled"
		}
		passages = append(passages, Passage{
			Title:   title,
			Content: v.Chunk,
			Score:   v.Score,
		})
	}

	return passages, nil
}

// Package source talks to the article search backend. Search and full-text
// fetch are one combined call: the backend's vector search already returns
// each candidate's content alongside its identifiers.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Query derives the search from the patient's disease and events.
type Query struct {
	Disease     string
	Events      []string
	NumArticles int
}

// Candidate is one article returned by the search stage, not yet scored.
type Candidate struct {
	PMID     string `json:"pmid"`
	PMCID    string `json:"pmcid"`
	FullText string `json:"content"`
}

// Client is the retrieval contract consumed by the pipeline.
type Client interface {
	Search(ctx context.Context, query Query) ([]Candidate, error)
}

// HTTPClient implements Client against the search backend's HTTP API.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	Disease     string `json:"disease"`
	EventsText  string `json:"events_text"`
	NumArticles int    `json:"num_articles"`
}

type searchResponse struct {
	Articles []Candidate `json:"articles"`
}

func (c *HTTPClient) Search(ctx context.Context, query Query) ([]Candidate, error) {
	body, err := json.Marshal(searchRequest{
		Disease:     query.Disease,
		EventsText:  strings.Join(query.Events, "\n"),
		NumArticles: query.NumArticles,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("article search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article search failed with status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return out.Articles, nil
}

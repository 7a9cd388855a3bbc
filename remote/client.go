// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/poiesic/officelines/core"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// Client queries a hosted search index for show lines.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets the HTTP client used for requests.
// Default is a client with the configured Timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient != nil {
			c.httpClient = httpClient
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a client for cfg. The configuration is validated and
// ErrConfigMissing is returned for absent or placeholder credentials.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigMissing
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

type queryRequest struct {
	Query       string `json:"query"`
	HitsPerPage int    `json:"hitsPerPage"`
}

// Hit is a single line as stored in the search index.
type Hit struct {
	ID       uint64 `json:"id"`
	Season   int    `json:"season"`
	Episode  int    `json:"episode"`
	Scene    int    `json:"scene"`
	LineText string `json:"line_text"`
	Speaker  string `json:"speaker"`
	ObjectID string `json:"objectID"`
}

// Line converts the hit to a core.Line.
func (h Hit) Line() *core.Line {
	return &core.Line{
		Id:      core.ID(h.ID),
		Season:  h.Season,
		Episode: h.Episode,
		Scene:   h.Scene,
		Text:    h.LineText,
		Speaker: h.Speaker,
	}
}

// QueryResponse is the decoded body of a query call.
type QueryResponse struct {
	Hits             []Hit  `json:"hits"`
	NbHits           int    `json:"nbHits"`
	Page             int    `json:"page"`
	NbPages          int    `json:"nbPages"`
	HitsPerPage      int    `json:"hitsPerPage"`
	ProcessingTimeMS int    `json:"processingTimeMS"`
	Query            string `json:"query"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Search returns the lines the index finds for query, in the order the
// service ranks them. A blank query returns an empty slice without a request.
func (c *Client) Search(ctx context.Context, query string) ([]*core.Line, error) {
	resp, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	lines := make([]*core.Line, len(resp.Hits))
	for i, hit := range resp.Hits {
		lines[i] = hit.Line()
	}
	return lines, nil
}

// Query runs query against the index and returns the raw response.
func (c *Client) Query(ctx context.Context, query string) (*QueryResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &QueryResponse{Hits: []Hit{}}, nil
	}

	body, err := json.Marshal(queryRequest{Query: query, HitsPerPage: c.config.HitsPerPage})
	if err != nil {
		return nil, err
	}

	var resp *QueryResponse
	err = RetryWithBackoff(ctx, c.logger, func() error {
		var err error
		resp, err = c.do(ctx, body)
		return err
	}, c.config.MaxRetries+1, c.config.RetryDelay)
	if err != nil {
		c.logger.Error("remote search failed", "index", c.config.IndexName, "err", err)
		return nil, err
	}

	c.logger.Debug("remote search complete", "query", query, "hits", len(resp.Hits), "nbHits", resp.NbHits)
	return resp, nil
}

func (c *Client) endpoint() string {
	return c.config.BaseURL + "/1/indexes/" + url.PathEscape(c.config.IndexName) + "/query"
}

// do performs a single request. Client errors other than 429 are permanent.
func (c *Client) do(ctx context.Context, body []byte) (*QueryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.config.AppID)
	req.Header.Set("X-Algolia-API-Key", c.config.APIKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		statusErr := statusError(res)
		if res.StatusCode >= 400 && res.StatusCode < 500 && res.StatusCode != http.StatusTooManyRequests {
			return nil, Permanent(statusErr)
		}
		return nil, statusErr
	}

	var decoded QueryResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, Permanent(fmt.Errorf("decode search response: %w", err))
	}
	if decoded.Hits == nil {
		decoded.Hits = []Hit{}
	}
	return &decoded, nil
}

func statusError(res *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var body errorResponse
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, res.StatusCode, body.Message)
	}
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
}

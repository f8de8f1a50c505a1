// Package api wraps the sample server's REST endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to one sample server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// ListResult is the /api/list response body.
type ListResult struct {
	Path    string  `json:"path"`
	Entries []Entry `json:"entries"`
}

// SearchResult is the /api/search response body.
type SearchResult struct {
	Results []Entry `json:"results"`
	Count   int     `json:"count"`
}

// errorBody is the server's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// New creates a client for the given base URL (trailing slash tolerated).
func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		log: log,
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) buildURL(endpoint string, query url.Values) string {
	u := c.baseURL + endpoint
	if len(query) == 0 {
		return u
	}
	return u + "?" + query.Encode()
}

// get issues a GET and returns the open response body on 2xx. Non-2xx
// responses are turned into an error carrying the server's detail message
// when one is present.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(endpoint, query), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		var body errorBody
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body) == nil && body.Detail != "" {
			return nil, fmt.Errorf("%s", body.Detail)
		}
		return nil, fmt.Errorf("request failed: %d", resp.StatusCode)
	}

	return resp, nil
}

// Health checks whether the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.get(ctx, "/api/health", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// List fetches the entries of one directory. Path "" is the library root.
func (c *Client) List(ctx context.Context, path string) (*ListResult, error) {
	query := url.Values{}
	query.Set("path", path)

	resp, err := c.get(ctx, "/api/list", query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ListResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	for i := range result.Entries {
		result.Entries[i].normalizeName()
	}
	c.log.Debug("listed directory", zap.String("path", path), zap.Int("entries", len(result.Entries)))
	return &result, nil
}

// Search runs a cross-tree search on the server.
func (c *Client) Search(ctx context.Context, searchQuery string, limit int) (*SearchResult, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	query.Set("limit", strconv.Itoa(limit))

	resp, err := c.get(ctx, "/api/search", query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	for i := range result.Results {
		result.Results[i].normalizeName()
	}
	c.log.Debug("search completed", zap.String("query", searchQuery), zap.Int("count", result.Count))
	return &result, nil
}

// FetchFile downloads the raw bytes of one file, used for waveform decoding
// and playback.
func (c *Client) FetchFile(ctx context.Context, path string) ([]byte, error) {
	query := url.Values{}
	query.Set("path", path)

	resp, err := c.get(ctx, "/api/file", query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Download streams one file into destDir and returns the local path.
func (c *Client) Download(ctx context.Context, path, destDir string) (string, error) {
	query := url.Values{}
	query.Set("path", path)

	resp, err := c.get(ctx, "/api/download", query)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	local := filepath.Join(destDir, BaseName(path))
	f, err := os.Create(local)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(local)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	c.log.Info("downloaded file", zap.String("path", path), zap.String("local", local))
	return local, nil
}

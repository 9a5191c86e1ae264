package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a VersionOne-style tracker instance. All calls require a
// configured instance URL and access token; NewClient rejects anything else
// up front so the UI can surface a setup prompt instead of a network error.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a client for the given instance. Returns a
// *ConfigurationError when the URL or token is empty.
func NewClient(instanceURL, token string, logger *slog.Logger) (*Client, error) {
	var missing []string
	if strings.TrimSpace(instanceURL) == "" {
		missing = append(missing, "instance URL")
	}
	if strings.TrimSpace(token) == "" {
		missing = append(missing, "access token")
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(instanceURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}, nil
}

// InstanceURL returns the configured instance base URL.
func (c *Client) InstanceURL() string { return c.baseURL }

// Query is one asset query: a type plus optional where/sel/sort expressions.
type Query struct {
	AssetType string
	Where     string
	Select    []string
	Sort      string
}

// QueryAssets fetches raw asset records for a query.
func (c *Client) QueryAssets(ctx context.Context, q Query) ([]RawAsset, error) {
	endpoint := fmt.Sprintf("%s/rest-1.v1/Data/%s", c.baseURL, q.AssetType)

	params := url.Values{}
	if q.Where != "" {
		params.Set("where", q.Where)
	}
	if len(q.Select) > 0 {
		params.Set("sel", strings.Join(q.Select, ","))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.logger.Debug("tracker query", "type", q.AssetType, "where", q.Where)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracker request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed assetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode asset response: %w", err)
	}
	return parsed.Assets, nil
}

// postXML posts an XML body to a data endpoint and returns the response
// status and body. Non-2xx responses are returned as *APIError.
func (c *Client) postXML(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tracker request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ESClient defines the operations the search command performs against an
// Elasticsearch cluster.
type ESClient interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	ContinueScroll(ctx context.Context, scrollID string) (*SearchResponse, error)
	ClearScroll(ctx context.Context, scrollID string) error
	GetIndexSettings(ctx context.Context) (map[string]IndexSettings, error)
	GetAliases(ctx context.Context) (map[string]IndexAliases, error)
	GetMappings(ctx context.Context) (map[string]IndexMappings, error)
	GetClusterHealth(ctx context.Context) (map[string]any, error)
	BaseURLs() []string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	Hosts       []string
	UseTLS      bool
	VerifyCerts bool
	Username    string
	Password    string
	// RequestTimeout bounds each round trip. Zero means no deadline; scan
	// searches over large windows may legitimately run long.
	RequestTimeout time.Duration
}

// DefaultClient implements ESClient using the standard net/http package.
type DefaultClient struct {
	http     *http.Client
	baseURLs []string
	username string
	password string
}

// NewDefaultClient constructs a DefaultClient from the given config. Hosts
// may be bare "host:port" addresses, which take their scheme from UseTLS, or
// full URLs with an explicit scheme. Credentials embedded in a host URL
// override the config credentials. Returns an error if no host is given or a
// host cannot be parsed.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("at least one host is required")
	}

	username, password := cfg.Username, cfg.Password
	baseURLs := make([]string, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		base, user, pass, err := hostURL(h, cfg.UseTLS)
		if err != nil {
			return nil, err
		}
		if user != "" || pass != "" {
			username, password = user, pass
		}
		baseURLs = append(baseURLs, base)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !cfg.VerifyCerts, //nolint:gosec
	}

	return &DefaultClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		baseURLs: baseURLs,
		username: username,
		password: password,
	}, nil
}

// BaseURLs returns the normalized base URLs of the configured hosts.
func (c *DefaultClient) BaseURLs() []string {
	return c.baseURLs
}

// hostURL normalizes one configured host into a base URL without credentials,
// returning any credentials found in the URL userinfo.
func hostURL(host string, useTLS bool) (base, username, password string, err error) {
	if !strings.Contains(host, "://") {
		scheme := "http"
		if useTLS {
			scheme = "https"
		}
		host = scheme + "://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid host %q: %w", host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", "", fmt.Errorf("unsupported scheme %q (must be http or https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", "", "", fmt.Errorf("invalid host %q: hostname is required", host)
	}

	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
		u.User = nil
	}

	return strings.TrimRight(u.String(), "/"), username, password, nil
}

const maxResponseBytes = 32 * 1024 * 1024 // 32 MB — well above any real ES response

// do performs one request, trying each configured host in order until one
// answers at the transport level. A non-2xx status from a reachable host is
// final and is not retried against the next host. It sets Accept:
// application/json and Basic Auth if credentials are configured, and decodes
// the response body into out when out is non-nil.
func (c *DefaultClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr error
	for _, base := range c.baseURLs {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, base+target, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.username != "" || c.password != "" {
			req.SetBasicAuth(c.username, c.password)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("do request: %w", err)
			}
			lastErr = err
			continue
		}
		return decodeResponse(resp, out)
	}

	return fmt.Errorf("no host reachable: %w", lastErr)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

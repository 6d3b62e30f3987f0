package exotica

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultUserAgent = "UnExoticA Mirror Helper/1.4 +https://github.com/the-real-tokai/unexotica-mirror"

// Per-request timeouts: short for wiki text, longer for binary downloads.
const (
	DefaultMetadataTimeout = 10 * time.Second
	DefaultDownloadTimeout = 20 * time.Second
)

// StatusError is returned for a non-success HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// ClientOptions configures a Client. Zero values fall back to production
// defaults.
type ClientOptions struct {
	BaseURL         string
	FilesURL        string
	UserAgent       string
	MetadataTimeout time.Duration
	DownloadTimeout time.Duration
	Limiter         *RateLimiter
}

// Client fetches wiki pages and archive/cover files, applying the shared
// rate limiter and per-request timeouts.
type Client struct {
	http            *http.Client
	baseURL         string
	filesURL        string
	userAgent       string
	metadataTimeout time.Duration
	downloadTimeout time.Duration
	limiter         *RateLimiter
	logger          *slog.Logger
}

// NewClient creates a Client.
func NewClient(opts ClientOptions, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		http:            &http.Client{},
		baseURL:         opts.BaseURL,
		filesURL:        opts.FilesURL,
		userAgent:       opts.UserAgent,
		metadataTimeout: opts.MetadataTimeout,
		downloadTimeout: opts.DownloadTimeout,
		limiter:         opts.Limiter,
		logger:          logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.filesURL == "" {
		c.filesURL = DefaultFilesURL
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.metadataTimeout == 0 {
		c.metadataTimeout = DefaultMetadataTimeout
	}
	if c.downloadTimeout == 0 {
		c.downloadTimeout = DefaultDownloadTimeout
	}
	if c.limiter == nil {
		c.limiter = DefaultRateLimiter()
	}
	return c
}

// FetchIndex retrieves the raw wikitext of the title index page.
func (c *Client) FetchIndex(ctx context.Context) (string, error) {
	data, err := c.get(ctx, IndexURL(c.baseURL), c.downloadTimeout)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FetchPage retrieves the raw wikitext of one title's page. rawTitle is the
// unmodified catalog identifier.
func (c *Client) FetchPage(ctx context.Context, rawTitle string) ([]byte, error) {
	return c.get(ctx, PageURL(c.baseURL, rawTitle), c.metadataTimeout)
}

// FetchArchive downloads a module archive by its extracted file link.
func (c *Client) FetchArchive(ctx context.Context, fileLink string) ([]byte, error) {
	return c.get(ctx, ArchiveURL(c.filesURL, fileLink), c.downloadTimeout)
}

// FetchCover downloads a box scan by its extracted file name.
func (c *Client) FetchCover(ctx context.Context, fileName string) ([]byte, error) {
	return c.get(ctx, CoverURL(c.baseURL, fileName), c.downloadTimeout)
}

func (c *Client) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}

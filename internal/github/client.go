package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mderval/gistfeed/internal/metrics"
)

const (
	defaultBaseURL  = "https://api.github.com"
	defaultTimeout  = 8 * time.Second
	defaultPageSize = 100

	// maxPageSize is the per_page ceiling enforced by the API itself.
	maxPageSize = 100

	// maxFileBytes caps a single raw file read. Gists are small by nature;
	// anything beyond this is truncated rather than failing the gist.
	maxFileBytes = 1 << 20

	// maxListBytes caps one page of the list response.
	maxListBytes = 8 << 20

	acceptHeader = "application/vnd.github.v3+json"
)

// Options configures a Client. The zero value targets the public GitHub
// API with the default page size and timeout.
type Options struct {
	// BaseURL overrides the API root, mainly for tests and GitHub
	// Enterprise installs.
	BaseURL string

	// PageSize is the per_page query value, clamped to the API maximum.
	PageSize int

	// Timeout bounds each individual request, not the whole listing.
	Timeout time.Duration

	UserAgent string
}

// Client fetches public gists and their raw file contents.
type Client struct {
	http      *http.Client
	baseURL   string
	pageSize  int
	timeout   time.Duration
	userAgent string
}

func NewClient(opts Options) *Client {
	c := &Client{
		http:      &http.Client{},
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		pageSize:  opts.PageSize,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	if c.pageSize > maxPageSize {
		c.pageSize = maxPageSize
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = "gistfeed"
	}
	return c
}

// ListGists returns every public gist of user, in API order, walking pages
// sequentially until the Link header no longer advertises a rel="next"
// page. Each page request runs under its own timeout.
//
// Error policy: a failure before anything was accumulated is returned to
// the caller; a failure once at least one gist was accumulated logs a
// warning and returns the partial list with a nil error, so a flaky later
// page degrades the feed instead of blanking it.
func (c *Client) ListGists(ctx context.Context, user string) ([]Gist, error) {
	var gists []Gist
	for page := 1; ; page++ {
		batch, next, err := c.listPage(ctx, user, page)
		if err != nil {
			if len(gists) == 0 {
				return nil, err
			}
			log.Warn().Err(err).Str("user", user).Int("page", page).
				Msg("Returning partial gist list")
			return gists, nil
		}

		metrics.APIPages.Inc()
		gists = append(gists, batch...)
		if !next {
			return gists, nil
		}
	}
}

func (c *Client) listPage(ctx context.Context, user string, page int) ([]Gist, bool, error) {
	endpoint := fmt.Sprintf("%s/users/%s/gists?per_page=%d&page=%d",
		c.baseURL, url.PathEscape(user), c.pageSize, page)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching gists page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, false, fmt.Errorf("user %s not found", user)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return nil, false, fmt.Errorf("rate limited by the GitHub API (status %d)", resp.StatusCode)
		default:
			return nil, false, fmt.Errorf("GitHub API returned status %d for page %d", resp.StatusCode, page)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListBytes))
	if err != nil {
		return nil, false, fmt.Errorf("reading gists page %d: %w", page, err)
	}

	var batch []Gist
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, false, fmt.Errorf("decoding gists page %d: %w", page, err)
	}

	return batch, hasNextPage(resp.Header.Get("Link")), nil
}

// FetchRaw downloads one file's raw content. The read is capped at
// maxFileBytes; oversized files come back truncated.
func (c *Client) FetchRaw(ctx context.Context, rawURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.FetchFailures.Inc()
		return "", fmt.Errorf("fetching raw content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.FetchFailures.Inc()
		return "", fmt.Errorf("raw content returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFileBytes))
	if err != nil {
		metrics.FetchFailures.Inc()
		return "", fmt.Errorf("reading raw content: %w", err)
	}
	return string(body), nil
}

// hasNextPage reports whether a Link header advertises a rel="next" page.
// A missing or malformed header means the current page is the last one.
func hasNextPage(link string) bool {
	for _, part := range strings.Split(link, ",") {
		if _, params, ok := strings.Cut(part, ";"); ok && strings.Contains(params, `rel="next"`) {
			return true
		}
	}
	return false
}

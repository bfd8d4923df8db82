package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fetcharr/fetcharr/internal/rank"
)

// WebshareClient is an HTTP client for the Webshare XML API. Outbound calls
// share a rate limiter so bursts of query variants stay polite.
type WebshareClient struct {
	baseURL    string
	username   string
	password   string
	limit      int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewWebshareClient creates a Webshare API client. limit caps the number of
// results requested per query.
func NewWebshareClient(baseURL, username, password string, limit int, log *slog.Logger) *WebshareClient {
	if log == nil {
		log = slog.Default()
	}
	if limit <= 0 {
		limit = 50
	}
	return &WebshareClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		limit:    limit,
		log:      log.With("component", "webshare"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// searchResponse is the XML response from the search endpoint. Only the
// fields consumed here are declared.
type searchResponse struct {
	XMLName xml.Name     `xml:"response"`
	Files   []searchFile `xml:"file"`
}

type searchFile struct {
	Ident         string `xml:"ident"`
	Name          string `xml:"name"`
	Size          int64  `xml:"size"`
	PositiveVotes int    `xml:"positive_votes"`
	NegativeVotes int    `xml:"negative_votes"`
	Password      string `xml:"password"`
}

// Search queries the provider for candidates matching the query string.
func (c *WebshareClient) Search(ctx context.Context, query string) ([]rank.Candidate, error) {
	form := url.Values{
		"what":     {query},
		"category": {"video"},
		"sort":     {"rating"},
		"limit":    {fmt.Sprint(c.limit)},
	}

	var resp searchResponse
	if err := c.post(ctx, "/search/", form, &resp); err != nil {
		return nil, err
	}

	candidates := make([]rank.Candidate, 0, len(resp.Files))
	for _, f := range resp.Files {
		candidates = append(candidates, rank.Candidate{
			Ident:         f.Ident,
			Name:          f.Name,
			Size:          f.Size,
			PositiveVotes: f.PositiveVotes,
			NegativeVotes: f.NegativeVotes,
			Password:      f.Password == "true",
		})
	}
	c.log.Debug("provider search", "query", query, "results", len(candidates))
	return candidates, nil
}

// linkResponse is the XML response from the file_link endpoint.
type linkResponse struct {
	XMLName xml.Name `xml:"response"`
	Status  string   `xml:"status"`
	Link    string   `xml:"link"`
}

// DirectLink resolves a candidate identifier to a temporary download URL.
func (c *WebshareClient) DirectLink(ctx context.Context, ident string) (string, error) {
	form := url.Values{
		"ident": {ident},
		"wst":   {""},
	}

	var resp linkResponse
	if err := c.post(ctx, "/file_link/", form, &resp); err != nil {
		return "", err
	}
	if resp.Link == "" {
		return "", fmt.Errorf("%w: ident %s, status %q", ErrNoDirectLink, ident, resp.Status)
	}
	return resp.Link, nil
}

func (c *WebshareClient) post(ctx context.Context, path string, form url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webshare %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode webshare response: %w", err)
	}
	return nil
}

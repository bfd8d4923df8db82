package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the fetcharr daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new fetcharr API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return serverError(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// serverError prefers the daemon's error message over the raw body.
func serverError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var apiErr struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("server error %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
}

// API response types (mirror server types)

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type PendingSummary struct {
	ID         int64  `json:"id"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	Season     *int   `json:"season"`
	Episode    *int   `json:"episode"`
	Year       *int   `json:"year"`
	Query      string `json:"query"`
	Candidates int    `json:"candidates"`
	IsUpgrade  bool   `json:"is_upgrade"`
	CreatedAt  string `json:"created_at"`
}

type CandidateResponse struct {
	Ident         string
	Name          string
	Size          int64
	PositiveVotes int
	NegativeVotes int
	SizeGB        float64 `json:"size_gb"`
	Score         struct {
		Total int `json:"total"`
	} `json:"score"`
}

type PendingDetail struct {
	ID          int64
	Source      string
	ItemTitle   string
	Season      *int
	Episode     *int
	Year        *int
	SearchQuery string
	Results     []CandidateResponse
	Status      string
	Destination string
	IsUpgrade   bool
	CreatedAt   time.Time
}

type HistoryRecord struct {
	ID          int64
	Source      string
	ItemTitle   string
	Season      *int
	Episode     *int
	Year        *int
	Filename    string
	FileSize    *int64
	Quality     string
	Language    string
	Destination string
	PackageID   *string
	Status      string
	LastError   *string

	IsUpgrade       bool
	UpgradeDecision *string

	DownloadCompletedAt *time.Time
	FileMovedAt         *time.Time
	FinalPath           *string

	CreatedAt time.Time
}

func (c *Client) Health() (*StatusResponse, error) {
	var s StatusResponse
	if err := c.get("/api/health", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Pending() ([]PendingSummary, error) {
	var list []PendingSummary
	if err := c.get("/api/pending", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) PendingDetail(id int64) (*PendingDetail, error) {
	var p PendingDetail
	if err := c.get(fmt.Sprintf("/api/pending/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Confirm(id int64, index int) (*HistoryRecord, error) {
	req := map[string]any{"pending_id": id, "index": index}
	var rec HistoryRecord
	if err := c.post("/api/confirm", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Reject(id int64) error {
	return c.post("/api/reject", map[string]any{"pending_id": id}, nil)
}

// SearchRequest mirrors the daemon's search body.
type SearchRequest struct {
	Source        string `json:"source"`
	SourceID      *int64 `json:"source_id,omitempty"`
	Title         string `json:"title"`
	Season        *int   `json:"season,omitempty"`
	Episode       *int   `json:"episode,omitempty"`
	Year          *int   `json:"year,omitempty"`
	Destination   string `json:"destination,omitempty"`
	UpgradeFileID *int64 `json:"upgrade_file_id,omitempty"`
}

func (c *Client) Search(req SearchRequest) (*PendingSummary, error) {
	var created PendingSummary
	if err := c.post("/api/search", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) SearchMissing() (int, error) {
	var result struct {
		Created int `json:"created"`
	}
	if err := c.post("/api/search/missing", struct{}{}, &result); err != nil {
		return 0, err
	}
	return result.Created, nil
}

func (c *Client) Upgrades() ([]HistoryRecord, error) {
	var list []HistoryRecord
	if err := c.get("/api/upgrades", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Decide(historyID int64, decision string) error {
	req := map[string]any{"history_id": historyID, "decision": decision}
	return c.post("/api/upgrades/decide", req, nil)
}

func (c *Client) History(source, status string, limit int) ([]HistoryRecord, error) {
	q := url.Values{}
	if source != "" {
		q.Set("source", source)
	}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/history"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list []HistoryRecord
	if err := c.get(path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

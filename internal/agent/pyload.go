package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// PyLoadClient talks to the pyLoad JSON API using HTTP basic auth.
type PyLoadClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewPyLoadClient creates a pyLoad client.
func NewPyLoadClient(baseURL, username, password string, log *slog.Logger) *PyLoadClient {
	if log == nil {
		log = slog.Default()
	}
	return &PyLoadClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		log:      log.With("component", "pyload"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// addPackageRequest is the JSON body for api/addPackage.
type addPackageRequest struct {
	Name  string   `json:"name"`
	Links []string `json:"links"`
	// Dest 1 queues the package for immediate download.
	Dest int `json:"dest"`
}

// AddPackage submits a named batch of URLs and returns the package id.
func (c *PyLoadClient) AddPackage(ctx context.Context, name string, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", fmt.Errorf("add package %q: no urls", name)
	}

	body, err := json.Marshal(addPackageRequest{Name: name, Links: urls, Dest: 1})
	if err != nil {
		return "", fmt.Errorf("encode add package: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/addPackage", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	default:
		return "", fmt.Errorf("pyload add package: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	// pyLoad answers with the bare package id, optionally quoted.
	packageID := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if packageID == "" {
		return "", fmt.Errorf("pyload add package: empty package id")
	}

	c.log.Info("package added", "name", name, "package_id", packageID, "links", len(urls))
	return packageID, nil
}

// packageData is the JSON response from api/getPackageData.
type packageData struct {
	Links []struct {
		Name   string `json:"name"`
		Status int    `json:"status"`
	} `json:"links"`
}

// pyLoad link status code for "finished".
const statusFinished = 0

// PackageStatus reports the package state and its per-file statuses.
func (c *PyLoadClient) PackageStatus(ctx context.Context, packageID string) (*PackageStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/getPackageData/%s", c.baseURL, packageID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound, http.StatusBadRequest:
		// pyLoad reports unknown packages as errors; the caller needs a
		// definite "gone" answer, not a failure.
		return &PackageStatus{State: PackageNotFound}, nil
	default:
		return nil, fmt.Errorf("pyload package status: unexpected status %d", resp.StatusCode)
	}

	var data packageData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode package data: %w", err)
	}

	status := &PackageStatus{State: PackageFinished}
	for _, link := range data.Links {
		finished := link.Status == statusFinished
		status.Files = append(status.Files, FileStatus{Name: link.Name, Finished: finished})
		if !finished {
			status.State = PackageDownloading
		}
	}
	if len(status.Files) == 0 {
		status.State = PackageNotFound
	}
	return status, nil
}

// DeletePackage removes a package from pyLoad. Unknown packages are treated
// as already deleted.
func (c *PyLoadClient) DeletePackage(ctx context.Context, packageID string) error {
	pids, err := json.Marshal(map[string][]string{"pids": {packageID}})
	if err != nil {
		return fmt.Errorf("encode delete package: %w", err)
	}
	body := pids
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/deletePackages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound:
		c.log.Debug("package deleted", "package_id", packageID)
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("pyload delete package: unexpected status %d", resp.StatusCode)
	}
}

package manager

import (
	"context"
	"fmt"

	"github.com/fetcharr/fetcharr/internal/history"
)

// Radarr is the Radarr v3 API client.
type Radarr struct {
	client
}

// NewRadarr creates a Radarr client.
func NewRadarr(baseURL, apiKey string) *Radarr {
	return &Radarr{client: newClient(baseURL, apiKey)}
}

// Source implements Manager.
func (r *Radarr) Source() history.Source {
	return history.SourceRadarr
}

type radarrMovie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
	Path  string `json:"path"`
}

type radarrWantedPage struct {
	Records []radarrMovie `json:"records"`
}

// MissingItems lists movies Radarr wants and has no file for.
func (r *Radarr) MissingItems(ctx context.Context) ([]MissingItem, error) {
	var page radarrWantedPage
	err := r.get(ctx, "/api/v3/wanted/missing?pageSize=100", &page)
	if err != nil {
		return nil, fmt.Errorf("radarr missing: %w", err)
	}

	items := make([]MissingItem, 0, len(page.Records))
	for _, m := range page.Records {
		item := MissingItem{
			ID:       m.ID,
			RescanID: m.ID,
			Title:    m.Title,
			Path:     m.Path,
		}
		if m.Year > 0 {
			year := m.Year
			item.Year = &year
		}
		items = append(items, item)
	}
	return items, nil
}

// ItemPath returns the movie folder on disk.
func (r *Radarr) ItemPath(ctx context.Context, movieID int64) (string, error) {
	var movie radarrMovie
	if err := r.get(ctx, fmt.Sprintf("/api/v3/movie/%d", movieID), &movie); err != nil {
		return "", fmt.Errorf("radarr movie %d: %w", movieID, err)
	}
	return movie.Path, nil
}

type radarrMovieFile struct {
	ID      int64  `json:"id"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Quality struct {
		Quality struct {
			Name string `json:"name"`
		} `json:"quality"`
	} `json:"quality"`
}

// GetFile fetches a movie file.
func (r *Radarr) GetFile(ctx context.Context, fileID int64) (*File, error) {
	var mf radarrMovieFile
	if err := r.get(ctx, fmt.Sprintf("/api/v3/moviefile/%d", fileID), &mf); err != nil {
		return nil, fmt.Errorf("radarr moviefile %d: %w", fileID, err)
	}
	return &File{
		ID:      mf.ID,
		Path:    mf.Path,
		Size:    mf.Size,
		Quality: mf.Quality.Quality.Name,
	}, nil
}

// DeleteFile removes a movie file from Radarr and from disk.
func (r *Radarr) DeleteFile(ctx context.Context, fileID int64) error {
	if err := r.delete(ctx, fmt.Sprintf("/api/v3/moviefile/%d", fileID)); err != nil {
		return fmt.Errorf("radarr delete moviefile %d: %w", fileID, err)
	}
	return nil
}

// Rescan triggers a RefreshMovie command.
func (r *Radarr) Rescan(ctx context.Context, movieID int64) error {
	body := map[string]any{"name": "RefreshMovie", "movieIds": []int64{movieID}}
	if err := r.post(ctx, "/api/v3/command", body); err != nil {
		return fmt.Errorf("radarr refresh movie %d: %w", movieID, err)
	}
	return nil
}

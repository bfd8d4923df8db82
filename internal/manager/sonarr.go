package manager

import (
	"context"
	"fmt"

	"github.com/fetcharr/fetcharr/internal/history"
)

// Sonarr is the Sonarr v3 API client.
type Sonarr struct {
	client
}

// NewSonarr creates a Sonarr client.
func NewSonarr(baseURL, apiKey string) *Sonarr {
	return &Sonarr{client: newClient(baseURL, apiKey)}
}

// Source implements Manager.
func (s *Sonarr) Source() history.Source {
	return history.SourceSonarr
}

type sonarrSeries struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
	Path  string `json:"path"`
}

type sonarrEpisode struct {
	ID            int64        `json:"id"`
	SeriesID      int64        `json:"seriesId"`
	SeasonNumber  int          `json:"seasonNumber"`
	EpisodeNumber int          `json:"episodeNumber"`
	Series        sonarrSeries `json:"series"`
}

type sonarrWantedPage struct {
	Records []sonarrEpisode `json:"records"`
}

// MissingItems lists episodes Sonarr wants and has no file for.
func (s *Sonarr) MissingItems(ctx context.Context) ([]MissingItem, error) {
	var page sonarrWantedPage
	err := s.get(ctx, "/api/v3/wanted/missing?pageSize=100&includeSeries=true", &page)
	if err != nil {
		return nil, fmt.Errorf("sonarr missing: %w", err)
	}

	items := make([]MissingItem, 0, len(page.Records))
	for _, ep := range page.Records {
		season, episode := ep.SeasonNumber, ep.EpisodeNumber
		item := MissingItem{
			ID:       ep.ID,
			RescanID: ep.SeriesID,
			Title:    ep.Series.Title,
			Season:   &season,
			Episode:  &episode,
			Path:     ep.Series.Path,
		}
		if ep.Series.Year > 0 {
			year := ep.Series.Year
			item.Year = &year
		}
		items = append(items, item)
	}
	return items, nil
}

// ItemPath returns the series path on disk.
func (s *Sonarr) ItemPath(ctx context.Context, seriesID int64) (string, error) {
	var series sonarrSeries
	if err := s.get(ctx, fmt.Sprintf("/api/v3/series/%d", seriesID), &series); err != nil {
		return "", fmt.Errorf("sonarr series %d: %w", seriesID, err)
	}
	return series.Path, nil
}

type sonarrEpisodeFile struct {
	ID      int64  `json:"id"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Quality struct {
		Quality struct {
			Name string `json:"name"`
		} `json:"quality"`
	} `json:"quality"`
}

// GetFile fetches an episode file.
func (s *Sonarr) GetFile(ctx context.Context, fileID int64) (*File, error) {
	var ef sonarrEpisodeFile
	if err := s.get(ctx, fmt.Sprintf("/api/v3/episodefile/%d", fileID), &ef); err != nil {
		return nil, fmt.Errorf("sonarr episodefile %d: %w", fileID, err)
	}
	return &File{
		ID:      ef.ID,
		Path:    ef.Path,
		Size:    ef.Size,
		Quality: ef.Quality.Quality.Name,
	}, nil
}

// DeleteFile removes an episode file from Sonarr and from disk.
func (s *Sonarr) DeleteFile(ctx context.Context, fileID int64) error {
	if err := s.delete(ctx, fmt.Sprintf("/api/v3/episodefile/%d", fileID)); err != nil {
		return fmt.Errorf("sonarr delete episodefile %d: %w", fileID, err)
	}
	return nil
}

// Rescan triggers a RescanSeries command.
func (s *Sonarr) Rescan(ctx context.Context, seriesID int64) error {
	body := map[string]any{"name": "RescanSeries", "seriesId": seriesID}
	if err := s.post(ctx, "/api/v3/command", body); err != nil {
		return fmt.Errorf("sonarr rescan series %d: %w", seriesID, err)
	}
	return nil
}

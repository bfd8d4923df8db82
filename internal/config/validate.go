package config

import (
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validMinQualities = map[string]bool{
	"": true, "360p": true, "480p": true, "720p": true, "1080p": true, "2160p": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Webshare.Username == "" {
		errs = append(errs, "webshare.username: required")
	}
	if c.Webshare.Password == "" {
		errs = append(errs, "webshare.password: required")
	}

	if c.PyLoad.URL == "" {
		errs = append(errs, "pyload.url: required")
	}
	if c.PyLoad.DownloadDir == "" {
		errs = append(errs, "pyload.download_dir: required")
	}

	if c.Sonarr == nil && c.Radarr == nil {
		errs = append(errs, "at least one of [sonarr] or [radarr] must be configured")
	}
	if c.Sonarr != nil {
		if c.Sonarr.URL == "" {
			errs = append(errs, "sonarr.url: required when sonarr is configured")
		}
		if c.Sonarr.APIKey == "" {
			errs = append(errs, "sonarr.api_key: required when sonarr is configured")
		}
	}
	if c.Radarr != nil {
		if c.Radarr.URL == "" {
			errs = append(errs, "radarr.url: required when radarr is configured")
		}
		if c.Radarr.APIKey == "" {
			errs = append(errs, "radarr.api_key: required when radarr is configured")
		}
	}

	if c.Plex != nil {
		if c.Plex.URL == "" {
			errs = append(errs, "plex.url: required when plex is configured")
		}
		if c.Plex.Token == "" {
			errs = append(errs, "plex.token: required when plex is configured")
		}
		if (c.Plex.LocalPath == "") != (c.Plex.RemotePath == "") {
			errs = append(errs, "plex.local_path and plex.remote_path must be set together")
		}
	}

	if !validMinQualities[c.Search.MinQuality] {
		errs = append(errs, fmt.Sprintf("search.min_quality: must be one of 360p, 480p, 720p, 1080p, 2160p; got %q", c.Search.MinQuality))
	}
	if c.Search.MaxSizeGB < 0 {
		errs = append(errs, fmt.Sprintf("search.max_size_gb: must not be negative, got %g", c.Search.MaxSizeGB))
	}

	if c.Mover.RetentionDays < 0 {
		errs = append(errs, fmt.Sprintf("mover.retention_days: must not be negative, got %d", c.Mover.RetentionDays))
	}

	return errs
}

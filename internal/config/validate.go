package config

import (
	"errors"
	"fmt"
)

var validQualities = map[string]bool{
	"128k":      true,
	"320k":      true,
	"flac":      true,
	"flac24bit": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHub(); err != nil {
		return err
	}
	if err := c.validatePlatforms(); err != nil {
		return err
	}
	if err := c.validateQuality(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateTransform(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateHub() error {
	if c.Hub.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tunebot/config.toml"
		}
		return fmt.Errorf("hub.base_url is required. Set TUNEHUB_BASE_URL env var or edit %s (create with 'tunebot config init')", defaultPath)
	}
	if c.Hub.TimeoutSeconds <= 0 {
		return errors.New("hub.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePlatforms() error {
	if len(c.Platforms) == 0 {
		return errors.New("at least one platform must be configured")
	}
	seen := make(map[string]bool, len(c.Platforms))
	for _, p := range c.Platforms {
		if p.Code == "" {
			return errors.New("platform code must not be empty")
		}
		if seen[p.Code] {
			return fmt.Errorf("duplicate platform code %q", p.Code)
		}
		seen[p.Code] = true
	}
	return nil
}

func (c *Config) validateQuality() error {
	if !validQualities[c.DefaultQuality] {
		return fmt.Errorf("default_quality must be one of 128k, 320k, flac, flac24bit (got %q)", c.DefaultQuality)
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.MaxRetries < 1 {
		return errors.New("download.max_retries must be at least 1")
	}
	if c.Download.TimeoutSeconds <= 0 {
		return errors.New("download.timeout_seconds must be positive")
	}
	if c.Download.MaxFileSizeMiB <= 0 {
		return errors.New("download.max_file_size_mib must be positive")
	}
	return nil
}

func (c *Config) validateTransform() error {
	if c.Transform.BudgetMillis <= 0 {
		return errors.New("transform.budget_ms must be positive")
	}
	return nil
}

// ValidQuality reports whether the supplied string names a known quality tier.
func ValidQuality(quality string) bool {
	return validQualities[quality]
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Hub contains connection settings for the TuneHub API.
type Hub struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Platform describes one upstream music source.
type Platform struct {
	Code string `toml:"code"`
	Name string `toml:"name"`
}

// Download contains settings for the audio download pipeline.
type Download struct {
	Dir            string `toml:"dir"`
	MaxRetries     int    `toml:"max_retries"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxFileSizeMiB int    `toml:"max_file_size_mib"`
}

// Transform contains limits applied to descriptor-supplied transform scripts.
type Transform struct {
	BudgetMillis int `toml:"budget_ms"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for TuneBot.
//
// Configuration sections by subsystem:
//   - Hub: TuneHub API endpoint and credentials
//   - Platforms: upstream music sources, in aggregation order
//   - Download: retry/timeout/size limits for audio downloads
//   - Transform: execution budget for descriptor transform scripts
//   - Paths: data and log directories
//   - Logging: log format and level
type Config struct {
	Hub            Hub        `toml:"hub"`
	Platforms      []Platform `toml:"platforms"`
	DefaultQuality string     `toml:"default_quality"`
	Download       Download   `toml:"download"`
	Transform      Transform  `toml:"transform"`
	Paths          Paths      `toml:"paths"`
	Logging        Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/tunebot/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and environment overrides applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tunebot.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("TUNEHUB_BASE_URL")); v != "" {
		c.Hub.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TUNEHUB_API_KEY")); v != "" {
		c.Hub.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("TUNEBOT_DEFAULT_QUALITY")); v != "" {
		c.DefaultQuality = v
	}
	if v := strings.TrimSpace(os.Getenv("TUNEBOT_DATA_DIR")); v != "" {
		c.Paths.DataDir = v
	}
}

func (c *Config) normalize() error {
	c.Hub.BaseURL = strings.TrimRight(strings.TrimSpace(c.Hub.BaseURL), "/")
	c.DefaultQuality = strings.ToLower(strings.TrimSpace(c.DefaultQuality))

	var err error
	if c.Paths.DataDir, err = ExpandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Download.Dir, err = ExpandPath(c.Download.Dir); err != nil {
		return err
	}

	for i := range c.Platforms {
		c.Platforms[i].Code = strings.ToLower(strings.TrimSpace(c.Platforms[i].Code))
		if c.Platforms[i].Name == "" {
			c.Platforms[i].Name = c.Platforms[i].Code
		}
	}
	return nil
}

// EnsureDirectories creates the directories TuneBot needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Download.Dir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PlatformCodes returns the configured platform codes in declaration order.
func (c *Config) PlatformCodes() []string {
	codes := make([]string, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		codes = append(codes, p.Code)
	}
	return codes
}

// PlatformName returns the display name for a platform code, falling back to
// the code itself for unknown platforms.
func (c *Config) PlatformName(code string) string {
	for _, p := range c.Platforms {
		if p.Code == code {
			return p.Name
		}
	}
	return code
}

// MaxFileSizeBytes returns the download size ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Download.MaxFileSizeMiB) * 1024 * 1024
}

// WriteSample writes the embedded sample configuration to the given path.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ prefixes and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

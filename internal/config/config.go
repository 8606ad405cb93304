package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/htmldiff/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "htmldiff.json"

	// DefaultPort is the default live-reload server port.
	DefaultPort = 3977

	// DefaultHost is the default live-reload server host.
	DefaultHost = "localhost"

	// DefaultDebounceMs is the default watcher debounce window.
	DefaultDebounceMs = 100

	// DefaultSimilarityThreshold is the matcher's default bottom-up
	// similarity threshold.
	DefaultSimilarityThreshold = 0.5
)

// Config is the complete htmldiff.json configuration for the live-reload
// server: what to watch, where to serve, and how the matcher should be
// tuned.
type Config struct {
	// Name is the project name, surfaced in logs only.
	Name string `json:"name,omitempty"`

	// Root is the directory the server renders routes from.
	Root string `json:"root,omitempty"`

	// Watch contains directories to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains glob patterns to exclude from watching.
	Ignore []string `json:"ignore,omitempty"`

	// DebounceMs is the watcher's debounce window, in milliseconds.
	DebounceMs int `json:"debounceMs,omitempty"`

	// Server contains the live-reload HTTP/WebSocket server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Matching contains matcher tuning overrides.
	Matching MatchingConfig `json:"matching,omitempty"`

	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Snapshot contains optional S3 snapshot archival settings.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	configPath string
}

// ServerConfig contains live-reload server settings.
type ServerConfig struct {
	// Port is the port to run the live-reload server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// OpenBrowser opens the browser automatically on start.
	OpenBrowser bool `json:"openBrowser,omitempty"`
}

// MatchingConfig mirrors domdiff.MatchingConfig for JSON configuration.
type MatchingConfig struct {
	// SimilarityThreshold is the bottom-up matcher's acceptance threshold,
	// in [0,1].
	SimilarityThreshold float64 `json:"similarityThreshold,omitempty"`

	// MinHeight excludes top-down candidates shorter than this height.
	MinHeight int `json:"minHeight,omitempty"`
}

// MetricsConfig contains Prometheus metrics exposure settings.
type MetricsConfig struct {
	// Enabled controls whether /metrics is registered.
	Enabled bool `json:"enabled,omitempty"`

	// Path is the URL path metrics are served on.
	Path string `json:"path,omitempty"`
}

// SnapshotConfig contains settings for archiving per-route HTML snapshots
// to S3. No code in this module reads these settings: the server always
// uses the in-memory store, and NewS3Store (s3store build tag) takes its
// bucket and prefix as arguments.
type SnapshotConfig struct {
	// Enabled controls whether snapshots are archived.
	Enabled bool `json:"enabled,omitempty"`

	// Bucket is the destination S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every archived object key.
	Prefix string `json:"prefix,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Root:       ".",
		Watch:      []string{"."},
		Ignore:     []string{"node_modules", ".git", "dist"},
		DebounceMs: DefaultDebounceMs,
		Server: ServerConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Matching: MatchingConfig{
			SimilarityThreshold: DefaultSimilarityThreshold,
			MinHeight:           0,
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load reads configuration from the specified directory, looking for
// htmldiff.json.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E001").
				WithDetail(filepath.Dir(path)).
				WithSuggestion("create htmldiff.json or pass --port/--host flags directly")
		}
		return nil, errors.Newf(errors.CategoryConfig, "reading config: %v", err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E002").
			WithDetail(err.Error()).
			WithSuggestion("check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Newf(errors.CategoryConfig, "marshaling config: %v", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Newf(errors.CategoryConfig, "writing config: %v", err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string { return c.configPath }

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Watch == nil {
		c.Watch = []string{"."}
	}
	if c.DebounceMs == 0 {
		c.DebounceMs = DefaultDebounceMs
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Matching.SimilarityThreshold == 0 {
		c.Matching.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E003").WithDetail(fmt.Sprintf("got %d", c.Server.Port))
	}
	if c.Matching.SimilarityThreshold < 0 || c.Matching.SimilarityThreshold > 1 {
		return errors.New("E004").WithDetail(fmt.Sprintf("got %f", c.Matching.SimilarityThreshold))
	}
	return nil
}

// Address returns the host:port string the server should bind to.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the full URL the server is reachable at.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// RootPath returns the absolute path to the directory routes are served
// from.
func (c *Config) RootPath() string {
	if filepath.IsAbs(c.Root) {
		return c.Root
	}
	return filepath.Join(c.Dir(), c.Root)
}

// WatchPaths returns the absolute paths to watch.
func (c *Config) WatchPaths() []string {
	out := make([]string, len(c.Watch))
	for i, w := range c.Watch {
		if filepath.IsAbs(w) {
			out[i] = w
		} else {
			out[i] = filepath.Join(c.Dir(), w)
		}
	}
	return out
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root, the
// first ancestor containing htmldiff.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf(errors.CategoryConfig, "no %s found in %s or any parent directory", ConfigFileName, startDir).
				WithSuggestion("run from a directory containing " + ConfigFileName + ", or pass flags directly")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory's project root.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

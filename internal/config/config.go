package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cellflow-dev/cellflow/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "cellflow.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 6060

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultMetricsNamespace is the default prometheus namespace.
	DefaultMetricsNamespace = "cellflow"
)

// Config represents the complete cellflow.json configuration consumed by
// the CLI and the inspector.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Debug enables verbose propagation logging.
	Debug bool `json:"debug,omitempty"`

	// Serve contains inspector server configuration.
	Serve ServeConfig `json:"serve,omitempty"`

	// Metrics contains prometheus naming configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Queues declares named queues registered up front, in flush order
	// after the default queue.
	Queues []string `json:"queues,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig contains inspector server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to serve the inspector on.
	Port int `json:"port,omitempty"`
}

// MetricsConfig contains prometheus naming settings.
type MetricsConfig struct {
	// Namespace is the prometheus namespace for engine metrics.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the optional prometheus subsystem.
	Subsystem string `json:"subsystem,omitempty"`
}

// New creates a Config with defaults applied.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for cellflow.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. A missing
// file is not an error: the defaults apply.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.New("E100").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E100").
			WithDetail("Failed to parse %s: %v", ConfigFileName, err).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E100").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E100").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from, empty when the
// config is defaults-only.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("E101").
			WithDetail("Port must be between 0 and 65535, got %d", c.Serve.Port)
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr()); err != nil {
		return errors.New("E101").Wrap(err)
	}
	seen := make(map[string]bool, len(c.Queues))
	for _, q := range c.Queues {
		if q == "" || seen[q] {
			return errors.Newf(errors.CategoryConfig, "queue names must be unique and non-empty")
		}
		seen[q] = true
	}
	return nil
}

// ListenAddr returns the inspector's host:port listen address.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Serve.Host, strconv.Itoa(c.Serve.Port))
}

// Exists reports whether a cellflow.json is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// LoadFromWorkingDir loads configuration from the current working
// directory, falling back to defaults when no file is present.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return Load(wd)
}

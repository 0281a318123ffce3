// Package config resolves tool-level settings. Precedence, lowest to
// highest: built-in defaults, an optional vclust.yaml file, environment
// variables. Command-line flags override all of these in the cmd layer.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/otukit/vclust/internal/types"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given
const DefaultConfigFile = "vclust.yaml"

// Config holds tool-level settings shared by all methods
type Config struct {
	// VsearchPath is the vsearch executable; empty means resolve
	// "vsearch" from PATH
	VsearchPath string `yaml:"vsearch_path"`

	// DBPath is the provenance run log location; empty disables run
	// logging
	DBPath string `yaml:"db_path"`

	// Threads is the default --threads value when a command doesn't
	// override it. 0 means one thread per CPU core.
	Threads int `yaml:"threads"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{Threads: 1}
}

// Load resolves configuration from the optional YAML file at path (the
// default file is skipped silently when absent; an explicit path must
// exist) and then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.Threads < 0 || cfg.Threads > types.MaxThreads {
		return nil, fmt.Errorf("threads must be between 0 and %d (got %d)", types.MaxThreads, cfg.Threads)
	}
	return cfg, nil
}

// applyEnv overlays VCLUST_* environment variables
func (c *Config) applyEnv() {
	if val := os.Getenv("VCLUST_VSEARCH"); val != "" {
		c.VsearchPath = val
	}
	if val := os.Getenv("VCLUST_DB"); val != "" {
		c.DBPath = val
	}
	if val := os.Getenv("VCLUST_THREADS"); val != "" {
		if threads, err := strconv.Atoi(val); err == nil {
			c.Threads = threads
		}
	}
}

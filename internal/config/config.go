// Package config handles the project configuration file and the paths
// derived from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/storage"
)

// ConfigFile is the name of the per-project configuration file.
const ConfigFile = "citegraph.yaml"

// APIKeyEnv is the environment variable holding the Scopus API key.
// It is read from the environment only, never from the config file.
const APIKeyEnv = "SCOPUS_API_KEY"

const (
	DefaultGraphName  = "citegraph"
	DefaultInterimDir = ".citegraph"
	DefaultIDType     = "doi"
	DefaultDepth      = 1
	cacheDirName      = "cache"
)

// validIDTypes lists the identifier kinds a seed file may use.
var validIDTypes = []string{"doi", "eid"}

// Config is the project configuration stored in citegraph.yaml. Zero
// fields take the package defaults, so an empty or absent file is a
// working configuration.
type Config struct {
	GraphName   string `yaml:"graph_name,omitempty"`   // names the checkpoint file
	InterimDir  string `yaml:"interim_dir,omitempty"`  // checkpoints, cache, backups
	CacheDir    string `yaml:"cache_dir,omitempty"`    // overrides interim_dir/cache
	IDType      string `yaml:"id_type,omitempty"`      // seed identifier column: doi or eid
	TargetDepth int    `yaml:"target_depth,omitempty"` // default build depth
	BatchSize   int    `yaml:"batch_size,omitempty"`   // seed cap, 0 means unlimited
	SJRDir      string `yaml:"sjr_dir,omitempty"`      // SCImago CSV exports for ranking
	Unweighted  bool   `yaml:"unweighted,omitempty"`   // plain edges instead of weighted
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	return &Config{
		GraphName:   DefaultGraphName,
		InterimDir:  DefaultInterimDir,
		IDType:      DefaultIDType,
		TargetDepth: DefaultDepth,
	}
}

// Load reads the configuration file at path. A missing file is not an
// error and yields the defaults, so running without a citegraph.yaml
// just works.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GraphName == "" {
		c.GraphName = DefaultGraphName
	}
	if c.InterimDir == "" {
		c.InterimDir = DefaultInterimDir
	}
	if c.IDType == "" {
		c.IDType = DefaultIDType
	}
	if c.TargetDepth == 0 {
		c.TargetDepth = DefaultDepth
	}
	c.InterimDir = ExpandPath(c.InterimDir)
	c.CacheDir = ExpandPath(c.CacheDir)
	c.SJRDir = ExpandPath(c.SJRDir)
}

// Validate checks the configuration for values no command could act
// on.
func (c *Config) Validate() error {
	if !slices.Contains(validIDTypes, c.IDType) {
		return fmt.Errorf("invalid id_type %q (valid: %v)", c.IDType, validIDTypes)
	}
	if c.TargetDepth < 0 {
		return fmt.Errorf("target_depth must not be negative, got %d", c.TargetDepth)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// CheckpointPath returns where the primary checkpoint for this
// project's graph lives.
func (c *Config) CheckpointPath() string {
	return filepath.Join(c.InterimDir, c.GraphName+storage.CheckpointSuffix)
}

// CachePath returns the response cache directory.
func (c *Config) CachePath() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return filepath.Join(c.InterimDir, cacheDirName)
}

// SeedIDType maps the configured id_type onto the identifier kind the
// seed reader expects. Call Validate first; an unknown value falls
// back to DOI.
func (c *Config) SeedIDType() paper.IDType {
	if c.IDType == "eid" {
		return paper.IDTypeEID
	}
	return paper.IDTypeDOI
}

// Weighted reports whether built edges should carry weights.
func (c *Config) Weighted() bool {
	return !c.Unweighted
}

// APIKey returns the Scopus API key from the environment.
func APIKey() string {
	return os.Getenv(APIKeyEnv)
}

// ExpandPath expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

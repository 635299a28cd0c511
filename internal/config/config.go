package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/mxmul/microsite/internal/core"
)

const DefaultFile = "microsite.yaml"

type Config struct {
	// Root is the site source tree; every other path is relative to it.
	Root        string `yaml:"root"`
	PagesDir    string `yaml:"pages_dir"`
	PublicDir   string `yaml:"public_dir"`
	DistDir     string `yaml:"dist_dir"`
	GlobalEntry string `yaml:"global_entry"`
	Shell       string `yaml:"shell"`

	// Jobs bounds the worker pool for page compilation and page writes.
	Jobs      int    `yaml:"jobs"`
	Pretty    *bool  `yaml:"pretty"`
	BaseTitle string `yaml:"base_title"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the configuration file at path. A missing file is not an
// error: the defaults describe a conventional site layout.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills in defaults for anything the file left unset.
func (c *Config) Normalize() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.PagesDir == "" {
		c.PagesDir = "pages"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.DistDir == "" {
		c.DistDir = "dist"
	}
	if c.GlobalEntry == "" {
		c.GlobalEntry = "global.ts"
	}
	if c.Jobs <= 0 {
		c.Jobs = runtime.NumCPU()
	}
	if c.Pretty == nil {
		pretty := true
		c.Pretty = &pretty
	}
	if c.BaseTitle == "" {
		c.BaseTitle = "microsite"
	}
	if lvl := os.Getenv("MICROSITE_LOG_LEVEL"); lvl != "" {
		c.Log.Level = lvl
	}
	c.Log.Level = string(NormalizeLogLevel(c.Log.Level))
	c.Log.Format = string(NormalizeLogFormat(c.Log.Format))
}

func (c *Config) Validate() error {
	if c.PagesDir == "." || c.DistDir == "." {
		return fmt.Errorf("pages_dir and dist_dir must be subdirectories of root")
	}
	if c.DistDir == c.PagesDir {
		return fmt.Errorf("dist_dir must differ from pages_dir")
	}
	if c.DistDir == c.PublicDir {
		return fmt.Errorf("dist_dir must differ from public_dir")
	}
	return nil
}

func (c *Config) PrettyOutput() bool {
	return c.Pretty == nil || *c.Pretty
}

func (c *Config) PagesPath() string   { return filepath.Join(c.Root, c.PagesDir) }
func (c *Config) PublicPath() string  { return filepath.Join(c.Root, c.PublicDir) }
func (c *Config) DistPath() string    { return filepath.Join(c.Root, c.DistDir) }
func (c *Config) GlobalPath() string  { return filepath.Join(c.Root, c.GlobalEntry) }
func (c *Config) WorkPath() string    { return filepath.Join(c.Root, core.WorkDir) }
func (c *Config) StagingPath() string { return filepath.Join(c.WorkPath(), core.StagingDir) }

// ShellPath returns the configured document shell component, or "" when the
// site relies on the built-in shell.
func (c *Config) ShellPath() string {
	if c.Shell == "" {
		return ""
	}
	return filepath.Join(c.Root, c.Shell)
}

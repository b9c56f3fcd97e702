// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and MYTASKS_* environment variables, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Backends accepted by the "backend" key.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config keeps runtime settings.
type Config struct {
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	Backend    string `mapstructure:"backend" yaml:"backend"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path,omitempty"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format"`
	Theme      string `mapstructure:"theme" yaml:"theme"`
	Locale     string `mapstructure:"locale" yaml:"locale"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:   defaultDataDir(),
		Backend:   BackendFile,
		LogLevel:  "warn",
		LogFormat: "text",
		Theme:     "classic",
		Locale:    "en",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mytasks")
	}
	return ".mytasks"
}

// DefaultPath is where the config file is looked up when none is given.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// Load reads configuration. An explicit path must exist; the default
// path is optional.
func Load(path string) (Config, error) {
	// .env is optional; a missing file is the common case
	_ = godotenv.Load()

	v := viper.New()
	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("sqlite_path", "")
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("locale", def.Locale)

	v.SetEnvPrefix("MYTASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("backend %q: want %s, %s or %s", c.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is empty")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "mytasks.db")
	}
	return nil
}

// Override applies command-line values on top of the loaded settings.
// Empty arguments leave the current value. A sqlite path derived from the
// old data dir follows the new one.
func (c *Config) Override(dataDir, backend string) error {
	if dataDir != "" {
		if c.SQLitePath == filepath.Join(c.DataDir, "mytasks.db") {
			c.SQLitePath = ""
		}
		c.DataDir = dataDir
	}
	if backend != "" {
		c.Backend = backend
	}
	return c.normalize()
}

// YAML renders c the way WriteDefault writes it.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	body, err := Default().YAML()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	content := "# mytasks configuration\n# backend: file | sqlite | memory\n" + string(body)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

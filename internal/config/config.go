// Package config loads settings from defaults, an optional YAML file, a .env
// file and DAILYCOACH_* environment variables, in that order.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/dailycoach/internal/constants"
)

const (
	EnvConfigFile  = constants.EnvPrefix + "CONFIG"
	EnvDatabase    = constants.EnvPrefix + "DB"
	EnvAddr        = constants.EnvPrefix + "ADDR"
	EnvTokenSecret = constants.EnvPrefix + "TOKEN_SECRET"
	EnvTokenTTL    = constants.EnvPrefix + "TOKEN_TTL"
	EnvLogDir      = constants.EnvPrefix + "LOG_DIR"
	EnvDebug       = constants.EnvPrefix + "DEBUG"
)

type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database    string        `yaml:"database"`
	Addr        string        `yaml:"addr"`
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	LogDir      string        `yaml:"log_dir"`
	Debug       bool          `yaml:"debug"`

	// Source is the YAML file that was read, if any.
	Source string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: constants.DefaultConfigPath,
		Addr:     constants.DefaultAddr,
		TokenTTL: constants.DefaultTokenTTL,
	}
}

// Options controls where Load looks for files.
type Options struct {
	// File is an explicit YAML path; it must exist when set.
	File string
	// EnvFile is the dotenv file to read. Defaults to ".env"; a missing file is ignored.
	EnvFile string
}

// Load builds a Config from every layer below command-line flags.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path, explicit := configFile(opts.File)
	if path != "" {
		if err := cfg.readFile(path, explicit); err != nil {
			return Config{}, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configFile(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path, true
	}
	if _, err := os.Stat(constants.DefaultConfigFile); err == nil {
		return constants.DefaultConfigFile, false
	}
	return "", false
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database, EnvDatabase)
	setString(&c.Addr, EnvAddr)
	setString(&c.TokenSecret, EnvTokenSecret)
	setString(&c.LogDir, EnvLogDir)

	if v := os.Getenv(EnvTokenTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTokenTTL, v, err)
		}
		c.TokenTTL = ttl
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// IsPostgres reports whether Database is a PostgreSQL connection string.
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.Database, "postgres://") || strings.HasPrefix(c.Database, "postgresql://")
}

// Validate checks settings every command needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return stderrors.New("database must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// ValidateServe additionally checks the token secret is long enough to sign sessions.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Addr) == "" {
		return stderrors.New("addr must not be empty")
	}
	if len(c.TokenSecret) < constants.MinTokenSecretLen {
		return fmt.Errorf("token secret must be at least %d bytes", constants.MinTokenSecretLen)
	}
	return nil
}
